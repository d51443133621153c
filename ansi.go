package manview

import (
	"io"
	"strings"
)

// WriteANSI writes lines to w with the theme's ANSI attributes, one row per
// line. Link spans are wrapped in OSC 8 sequences when WithOSC8 is set.
func WriteANSI(w io.Writer, lines []RenderedLine, theme Theme, opts ...RenderOption) error {
	cfg := newRenderConfig(opts)
	if theme == nil {
		theme = DefaultTheme()
	}
	styles := theme.Styles()
	var b strings.Builder
	for _, line := range lines {
		b.Reset()
		writeLine(&b, line, styles, cfg.osc8)
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(b *strings.Builder, line RenderedLine, styles Styles, osc8 bool) {
	current := ""
	link := ""
	for _, s := range line.Spans {
		if osc8 && s.Link != link {
			if link != "" {
				b.WriteString(osc8End)
			}
			if s.Link != "" {
				b.WriteString(osc8Start + s.Link + "\x1b\\")
			}
			link = s.Link
		}
		prefix := spanAttr(s.Span, line.Role, styles).Prefix
		if strings.TrimSpace(s.Text) == "" && s.Link == "" {
			prefix = styles.Text.Prefix
		}
		if prefix != current {
			if current != "" {
				b.WriteString(ansiReset)
			}
			current = prefix
			b.WriteString(current)
		}
		b.WriteString(s.Text)
	}
	if link != "" {
		b.WriteString(osc8End)
	}
	if current != "" {
		b.WriteString(ansiReset)
	}
}

func spanAttr(s Span, role LineRole, styles Styles) Attr {
	switch role {
	case RoleHeading:
		return styles.Heading
	case RoleSubheading:
		return styles.Subheading
	case RoleExample, RoleTitle:
		return styles.Text
	}
	switch {
	case s.Link != "":
		return styles.Link
	case s.Style == Bold:
		return styles.Bold
	case s.Style == Underline:
		return styles.Underline
	}
	return styles.Text
}

// PlainText returns the text of lines joined by newlines, without styling.
func PlainText(lines []RenderedLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
