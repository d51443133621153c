package manview

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

var spaceString = strings.Repeat(" ", 256)

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= len(spaceString) {
		return spaceString[:n]
	}
	return strings.Repeat(" ", n)
}

// word is an unbreakable run of spans between blanks. brk forces a new row
// before the word.
type word struct {
	spans Text
	width int
	brk   bool
}

// wordsOf splits lines into words. Line ends count as blanks, except before
// a bullet line, whose first word starts a new row.
func wordsOf(lines ...Text) []word {
	var (
		out   []word
		cur   word
		b     strings.Builder
		first bool
	)
	flushSpan := func(s Span) {
		if b.Len() == 0 {
			return
		}
		s.Text = b.String()
		b.Reset()
		cur.spans = append(cur.spans, s)
		cur.width += ansi.PrintableRuneWidth(s.Text)
	}
	flushWord := func() {
		if len(cur.spans) > 0 {
			cur.brk = first
			first = false
			out = append(out, cur)
		}
		cur = word{}
	}
	for _, line := range lines {
		first = isBulletLine(line)
		for _, s := range line {
			for _, r := range s.Text {
				if r == ' ' || r == '\t' {
					flushSpan(s)
					flushWord()
					continue
				}
				b.WriteRune(r)
			}
			flushSpan(s)
		}
		flushWord()
	}
	return out
}

// isBulletLine reports whether t starts with "*" followed by a blank.
func isBulletLine(t Text) bool {
	s := strings.TrimLeft(t.String(), " \t")
	return len(s) > 1 && s[0] == '*' && (s[1] == ' ' || s[1] == '\t')
}

func appendWord(t Text, w word) Text {
	for _, s := range w.spans {
		t = appendSpan(t, s)
	}
	return t
}

func concatText(parts ...Text) Text {
	var out Text
	for _, p := range parts {
		for _, s := range p {
			out = appendSpan(out, s)
		}
	}
	return out
}

func plain(s string) Text {
	if s == "" {
		return nil
	}
	return Text{{Text: s}}
}

// truncateText cuts t to at most width visible cells.
func truncateText(t Text, width int) Text {
	if t.Width() <= width {
		return t
	}
	var out Text
	used := 0
	for _, s := range t {
		w := ansi.PrintableRuneWidth(s.Text)
		if used+w <= width {
			out = appendSpan(out, s)
			used += w
			continue
		}
		if rest := width - used; rest > 0 {
			s.Text = truncate.String(s.Text, uint(rest))
			out = appendSpan(out, s)
		}
		break
	}
	return out
}

// trimTrailing drops trailing blanks from unstyled spans.
func trimTrailing(t Text) Text {
	for len(t) > 0 {
		last := t[len(t)-1]
		if last.Style != Plain || last.Link != "" {
			return t
		}
		trimmed := strings.TrimRight(last.Text, " ")
		if trimmed != "" {
			out := append(Text(nil), t...)
			out[len(out)-1].Text = trimmed
			return out
		}
		t = t[:len(t)-1]
	}
	return t
}

// expandTabs replaces tabs with blanks up to the next tab stop, counting
// columns from col.
func expandTabs(t Text, col, tabWidth int) Text {
	has := false
	for _, s := range t {
		if strings.IndexByte(s.Text, '\t') >= 0 {
			has = true
			break
		}
	}
	if !has {
		return t
	}
	out := make(Text, 0, len(t))
	for _, s := range t {
		var b strings.Builder
		for _, r := range s.Text {
			if r == '\t' {
				n := tabWidth - col%tabWidth
				b.WriteString(spaces(n))
				col += n
				continue
			}
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
		s.Text = b.String()
		out = appendSpan(out, s)
	}
	return out
}

// placed converts a line of spans into a RenderedLine.
func placed(t Text, block int, role LineRole) RenderedLine {
	line := RenderedLine{Block: block, Role: role}
	if len(t) == 0 {
		return line
	}
	var b strings.Builder
	line.Spans = make([]PlacedSpan, 0, len(t))
	col := 0
	for _, s := range t {
		line.Spans = append(line.Spans, PlacedSpan{Span: s, Col: col})
		b.WriteString(s.Text)
		col += ansi.PrintableRuneWidth(s.Text)
	}
	line.Text = b.String()
	return line
}
