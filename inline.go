package manview

import "strings"

// ResolveInline turns one text line into styled spans. Font escapes are \fB
// (bold), \fI (underline), \fR (plain) and \fP (previous font); any other
// \f code falls back to plain. Fonts never carry over to the next line.
// base is the font in effect at the start of the line. The escapes \-, \e,
// \\, \&, \. and a few \(xx glyphs are translated; everything else is
// literal.
func ResolveInline(line string, base Style) Text {
	var (
		out  Text
		b    strings.Builder
		cur  = base
		prev = base
	)
	flush := func() {
		if b.Len() > 0 {
			out = appendSpan(out, Span{Text: b.String(), Style: cur})
			b.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '\\' || i+1 >= len(line) {
			b.WriteByte(c)
			continue
		}
		switch line[i+1] {
		case 'f':
			if i+2 >= len(line) {
				b.WriteString(line[i:])
				i = len(line)
				continue
			}
			flush()
			next := fontForCode(line[i+2], prev)
			prev, cur = cur, next
			i += 2
		case '-':
			b.WriteByte('-')
			i++
		case 'e', '\\':
			b.WriteByte('\\')
			i++
		case '&':
			i++
		case '.':
			b.WriteByte('.')
			i++
		case '(':
			if i+3 < len(line) {
				if glyph, ok := specialChars[line[i+2:i+4]]; ok {
					b.WriteString(glyph)
					i += 3
					continue
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return out
}

// specialChars maps the two-letter \( escapes that appear in ordinary pages.
var specialChars = map[string]string{
	"bu": "\u2022",
	"em": "\u2014",
	"en": "\u2013",
	"co": "\u00a9",
	"rg": "\u00ae",
	"aq": "'",
	"dq": "\"",
	"lq": "\u201c",
	"rq": "\u201d",
	"hy": "-",
	"mi": "-",
}

func fontForCode(code byte, prev Style) Style {
	switch code {
	case 'B':
		return Bold
	case 'I':
		return Underline
	case 'P':
		return prev
	default:
		return Plain
	}
}
