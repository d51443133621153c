package manview

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

// Style is the font of a span.
type Style uint8

const (
	// Plain is the roman font.
	Plain Style = iota
	// Bold is the bold font.
	Bold
	// Underline stands in for italics on terminals.
	Underline
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Underline:
		return "underline"
	default:
		return "plain"
	}
}

// Span is a run of text sharing one style and an optional link target.
type Span struct {
	Text  string
	Style Style
	Link  string
}

// Text is one logical line of inline content.
type Text []Span

// String returns the concatenated span text.
func (t Text) String() string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0].Text
	}
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the visible width of the line in terminal cells.
func (t Text) Width() int {
	w := 0
	for _, s := range t {
		w += ansi.PrintableRuneWidth(s.Text)
	}
	return w
}

// Blank reports whether the line holds no visible characters.
func (t Text) Blank() bool {
	for _, s := range t {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}

func (t Text) withStyle(style Style) Text {
	out := make(Text, len(t))
	for i, s := range t {
		s.Style = style
		out[i] = s
	}
	return out
}

func (t Text) withLink(link string, style Style) Text {
	out := make(Text, len(t))
	for i, s := range t {
		s.Link = link
		s.Style = style
		out[i] = s
	}
	return out
}

// appendSpan merges s into the last span when style and link match.
func appendSpan(t Text, s Span) Text {
	if s.Text == "" {
		return t
	}
	if n := len(t); n > 0 && t[n-1].Style == s.Style && t[n-1].Link == s.Link {
		t[n-1].Text += s.Text
		return t
	}
	return append(t, s)
}

func joinText(parts []Text, sep string) Text {
	var out Text
	for i, p := range parts {
		if i > 0 {
			out = appendSpan(out, Span{Text: sep})
		}
		for _, s := range p {
			out = appendSpan(out, s)
		}
	}
	return out
}
