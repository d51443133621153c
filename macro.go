package manview

import (
	"strconv"
	"strings"
)

type macroKind uint8

const (
	macroUnknown macroKind = iota
	macroTitle
	macroSection
	macroSubsection
	macroExampleBegin
	macroExampleEnd
	macroMarginPush
	macroMarginPop
	macroParagraph
	macroTagged
	macroTagAdd
	macroIndented
	macroSynopsisBegin
	macroSynopsisOption
	macroSynopsisEnd
	macroMailBegin
	macroMailEnd
	macroURLBegin
	macroURLEnd
	macroBold
	macroItalic
	macroSmall
	macroSmallBold
	macroBoldItalic
	macroBoldRoman
	macroItalicBold
	macroItalicRoman
	macroRomanBold
	macroRomanItalic
)

var macroNames = map[string]macroKind{
	"TH": macroTitle,
	"SH": macroSection,
	"SS": macroSubsection,
	"EX": macroExampleBegin,
	"EE": macroExampleEnd,
	"RS": macroMarginPush,
	"RE": macroMarginPop,
	"P":  macroParagraph,
	"LP": macroParagraph,
	"PP": macroParagraph,
	"TP": macroTagged,
	"TQ": macroTagAdd,
	"IP": macroIndented,
	"SY": macroSynopsisBegin,
	"OP": macroSynopsisOption,
	"YS": macroSynopsisEnd,
	"MT": macroMailBegin,
	"ME": macroMailEnd,
	"UR": macroURLBegin,
	"UE": macroURLEnd,
	"B":  macroBold,
	"I":  macroItalic,
	"SM": macroSmall,
	"SB": macroSmallBold,
	"BI": macroBoldItalic,
	"BR": macroBoldRoman,
	"IB": macroItalicBold,
	"IR": macroItalicRoman,
	"RB": macroRomanBold,
	"RI": macroRomanItalic,
}

func lookupMacro(name string) macroKind {
	return macroNames[name]
}

// font returns the style a single-font macro applies.
func (k macroKind) font() (Style, bool) {
	switch k {
	case macroBold, macroSmallBold:
		return Bold, true
	case macroItalic:
		return Underline, true
	case macroSmall:
		return Plain, true
	}
	return Plain, false
}

// alternation returns the two styles an alternating macro cycles through.
func (k macroKind) alternation() (Style, Style, bool) {
	switch k {
	case macroBoldItalic:
		return Bold, Underline, true
	case macroBoldRoman:
		return Bold, Plain, true
	case macroItalicBold:
		return Underline, Bold, true
	case macroItalicRoman:
		return Underline, Plain, true
	case macroRomanBold:
		return Plain, Bold, true
	case macroRomanItalic:
		return Plain, Underline, true
	}
	return Plain, Plain, false
}

func (k macroKind) isFont() bool {
	if _, ok := k.font(); ok {
		return true
	}
	_, _, ok := k.alternation()
	return ok
}

// fontText renders the arguments of a font macro. ok is false when the macro
// is not a font macro or has no arguments.
func fontText(k macroKind, args []string) (Text, bool) {
	if len(args) == 0 {
		return nil, false
	}
	if a, b, ok := k.alternation(); ok {
		var out Text
		for i, arg := range args {
			style := a
			if i%2 == 1 {
				style = b
			}
			for _, s := range ResolveInline(arg, style) {
				out = appendSpan(out, s)
			}
		}
		return out, true
	}
	if style, ok := k.font(); ok {
		return ResolveInline(strings.Join(args, " "), style), true
	}
	return nil, false
}

// splitArgs splits macro arguments on blanks. A double quote at the start of
// an argument groups up to the closing quote and "" inside a quoted argument
// is a literal quote.
func splitArgs(s string) []string {
	var (
		args    []string
		b       strings.Builder
		inQuote bool
		have    bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && inQuote && i+1 < len(s) && s[i+1] == '"':
			b.WriteByte('"')
			i++
		case c == '"' && inQuote:
			inQuote = false
		case c == '"' && !have:
			inQuote, have = true, true
		case (c == ' ' || c == '\t') && !inQuote:
			if have {
				args = append(args, b.String())
				b.Reset()
				have = false
			}
		default:
			b.WriteByte(c)
			have = true
		}
	}
	if have {
		args = append(args, b.String())
	}
	return args
}

// parseIndent reads a non-negative indent in character cells. The roff
// scale suffixes n and m are accepted and treated as one cell.
func parseIndent(s string) (int, bool) {
	s = strings.TrimRight(s, "nm")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
