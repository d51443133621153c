package manview

import "strings"

// LineKind classifies a raw input line.
type LineKind uint8

const (
	// TextLine is prose, including blank lines and escaped macro prefixes.
	TextLine LineKind = iota
	// MacroLine is a macro invocation.
	MacroLine
	// CommentLine is a roff comment or an empty request and carries no content.
	CommentLine
)

func (k LineKind) String() string {
	switch k {
	case MacroLine:
		return "macro"
	case CommentLine:
		return "comment"
	default:
		return "text"
	}
}

const macroPrefix = '.'

// Line is one classified input line.
type Line struct {
	Kind LineKind
	// Content is the raw line without its line terminator.
	Content string
	// Name and Args are set for macro lines only.
	Name string
	Args string
	// Number is the 1-based source line number.
	Number int

	macro macroKind
}

// Blank reports whether a text line is empty or whitespace only.
func (l Line) Blank() bool {
	return l.Kind == TextLine && strings.TrimSpace(l.Content) == ""
}

// Classify splits text into lines and classifies each one. A trailing line
// terminator does not produce an extra empty line.
func Classify(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]Line, 0, len(raw))
	for i, content := range raw {
		lines = append(lines, classifyLine(sanitizeLine(content), i+1))
	}
	return lines
}

func classifyLine(content string, number int) Line {
	l := Line{Kind: TextLine, Content: content, Number: number}
	rest := strings.TrimLeft(content, " \t")
	if rest == "" {
		return l
	}
	if isComment(rest) {
		l.Kind = CommentLine
		return l
	}
	if rest[0] != macroPrefix {
		return l
	}
	n := 0
	for n < 2 && 1+n < len(rest) && isASCIILetter(rest[1+n]) {
		n++
	}
	if n == 0 {
		return l
	}
	end := 1 + n
	if end < len(rest) && rest[end] != ' ' && rest[end] != '\t' {
		return l
	}
	l.Kind = MacroLine
	l.Name = rest[1:end]
	l.Args = strings.TrimSpace(rest[end:])
	l.macro = lookupMacro(l.Name)
	return l
}

func isComment(s string) bool {
	if strings.TrimSpace(s) == "." {
		return true
	}
	return strings.HasPrefix(s, `.\"`) || strings.HasPrefix(s, `\"`) || strings.HasPrefix(s, `'\"`)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
