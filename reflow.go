package manview

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
)

// WrapMode selects how prose is fitted to the width.
type WrapMode uint8

const (
	// FullReflow joins the lines of a block and word-wraps them.
	FullReflow WrapMode = iota
	// LongLinesOnly keeps source lines that fit and wraps the rest.
	LongLinesOnly
	// NoWrap keeps source lines and truncates them at the width.
	NoWrap
)

func (m WrapMode) String() string {
	switch m {
	case LongLinesOnly:
		return "long"
	case NoWrap:
		return "none"
	default:
		return "full"
	}
}

// ParseWrapMode maps a mode name to a WrapMode. It accepts full, long and
// none as well as the names man, detect and no_wrap. detect is full reflow:
// hard-wrapped prose is rejoined and lines starting with "* " still begin a
// new row.
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "man", "detect", "":
		return FullReflow, nil
	case "long":
		return LongLinesOnly, nil
	case "none", "no_wrap", "nowrap":
		return NoWrap, nil
	}
	return FullReflow, fmt.Errorf("unknown wrap mode %q", s)
}

// PlacedSpan is a span positioned at a column of a rendered line.
type PlacedSpan struct {
	Span
	Col int
}

// LineRole tells a renderer what a rendered line belongs to.
type LineRole uint8

const (
	RoleText LineRole = iota
	RoleHeading
	RoleSubheading
	RoleExample
	RoleTitle
)

// RenderedLine is one physical output row. Spans cover the whole row,
// leading padding included, and Text is their concatenation.
type RenderedLine struct {
	Text  string
	Spans []PlacedSpan
	// Block is the index of the source block in Document.Blocks, or -1 for
	// separators and title lines.
	Block int
	Role  LineRole
}

// Width returns the visible width of the line.
func (l RenderedLine) Width() int {
	return ansi.PrintableRuneWidth(l.Text)
}

const subsectionMargin = 2

// Reflow lays out doc for the given width and wrap mode. Example lines are
// never wrapped or truncated. Every other line fits in width unless it holds
// a single word wider than width.
func Reflow(doc *Document, width int, mode WrapMode, opts ...RenderOption) ([]RenderedLine, error) {
	if err := checkDimension("width", width); err != nil {
		return nil, fmt.Errorf("reflow: %w", err)
	}
	if doc == nil {
		doc = &Document{}
	}
	r := &reflower{cfg: newRenderConfig(opts), width: width, mode: mode}
	return r.document(doc), nil
}

type reflower struct {
	cfg   renderConfig
	width int
	mode  WrapMode

	buf  []Text
	role LineRole
}

func (r *reflower) document(doc *Document) []RenderedLine {
	var out []RenderedLine
	titled := r.cfg.titleLines && doc.Title != ""
	if titled {
		out = append(out, placed(r.titleLine(doc.FooterOutside, doc.HeaderMiddle, doc.FooterOutside), -1, RoleTitle))
	}
	var prev Block
	for i, b := range doc.Blocks {
		r.buf = r.buf[:0]
		r.render(b)
		if len(r.buf) == 0 {
			continue
		}
		if separated(prev, b) || (prev == nil && titled) {
			out = append(out, placed(nil, -1, RoleText))
		}
		for _, t := range r.buf {
			out = append(out, placed(t, i, r.role))
		}
		prev = b
	}
	if titled {
		out = append(out, placed(nil, -1, RoleText))
		out = append(out, placed(r.titleLine(doc.FooterInside, doc.FooterMiddle, doc.FooterOutside), -1, RoleTitle))
	}
	return out
}

// separated reports whether a blank line goes between prev and next.
func separated(prev, next Block) bool {
	if prev == nil {
		return false
	}
	_, a := prev.(*Synopsis)
	_, b := next.(*Synopsis)
	return !(a && b)
}

func (r *reflower) render(b Block) {
	r.role = RoleText
	switch b := b.(type) {
	case *Heading:
		margin := 0
		r.role = RoleHeading
		if b.Level == SubsectionHeading {
			margin = subsectionMargin
			r.role = RoleSubheading
		}
		r.body([]Text{b.Text.withStyle(Bold)}, margin, nil)
	case *Paragraph:
		r.body(b.Lines, b.Margin+b.Indent, nil)
	case *TaggedParagraph:
		r.tagged(b.Tags, b.Lines, b.Layout)
	case *IndentedBlock:
		var tags []Text
		if b.Tag != nil {
			tags = []Text{b.Tag}
		}
		r.tagged(tags, b.Lines, b.Layout)
	case *Example:
		r.role = RoleExample
		r.example(b)
	case *Synopsis:
		r.synopsis(b)
	case *Link:
		r.link(b)
	}
}

// tagged places tags at the margin and the body at margin+indent. When the
// tags joined by ", " are narrower than the indent, the last tag shares its
// row with the first body line.
func (r *reflower) tagged(tags, lines []Text, lay Layout) {
	col := lay.Margin + lay.Indent
	own := tags
	var lead Text
	if n := len(tags); n > 0 && joinText(tags, ", ").Width() < lay.Indent && col <= r.width {
		own = tags[:n-1]
		last := tags[n-1]
		lead = concatText(plain(spaces(lay.Margin)), last, plain(spaces(lay.Indent-last.Width())))
	}
	for _, t := range own {
		r.body([]Text{t}, lay.Margin, nil)
	}
	r.body(lines, col, lead)
}

// body lays out prose starting at column col. A non-nil lead replaces the
// padding of the first row.
func (r *reflower) body(lines []Text, col int, lead Text) {
	if r.mode == FullReflow {
		r.emit(r.fill(wordsOf(lines...), col, col, lead)...)
		return
	}
	for _, line := range lines {
		if line.Blank() {
			continue
		}
		first := lead
		lead = nil
		prefix := first
		if prefix == nil {
			prefix = plain(spaces(col))
		}
		full := concatText(prefix, expandTabs(line, prefix.Width(), r.cfg.tabWidth))
		switch {
		case r.mode == NoWrap:
			r.emit(truncateText(full, r.width))
		case full.Width() <= r.width:
			r.emit(full)
		default:
			r.emit(r.fill(wordsOf(line), col, col, first)...)
		}
	}
	if lead != nil {
		r.emit(lead)
	}
}

// fill wraps words greedily and never splits one. The first row starts at
// firstCol, or with lead when set, and later rows start at restCol. A word
// that fits the width but not at its column is moved left until it fits.
func (r *reflower) fill(words []word, firstCol, restCol int, lead Text) []Text {
	var (
		out     []Text
		cur     Text
		curW    int
		hasWord bool
		hasLead = len(lead) > 0
		col     = firstCol
	)
	if hasLead {
		cur = append(Text(nil), lead...)
		curW = lead.Width()
	}
	for _, w := range words {
		if hasWord {
			if !w.brk && curW+1+w.width <= r.width {
				cur = appendWord(appendSpan(cur, Span{Text: " "}), w)
				curW += 1 + w.width
				continue
			}
			out = append(out, cur)
			cur, curW, hasWord = nil, 0, false
			col = restCol
		}
		if hasLead {
			hasLead = false
			if curW+w.width <= r.width {
				cur = appendWord(cur, w)
				curW += w.width
				hasWord = true
				continue
			}
			out = append(out, cur)
			cur, curW = nil, 0
			col = restCol
		}
		start := col
		if start+w.width > r.width {
			start = max(0, r.width-w.width)
		}
		cur = appendWord(plain(spaces(start)), w)
		curW = start + w.width
		hasWord = true
	}
	if hasWord || hasLead {
		out = append(out, cur)
	}
	return out
}

func (r *reflower) example(ex *Example) {
	pad := spaces(ex.Margin + ex.Indent)
	for _, raw := range ex.Lines {
		if raw == "" {
			r.buf = append(r.buf, nil)
			continue
		}
		r.buf = append(r.buf, Text{{Text: pad + raw}})
	}
}

// synopsis lays out the command and its options with a hanging indent. An
// option is kept whole unless it is wider than the room after the hanging
// indent, in which case it breaks between name and argument.
func (r *reflower) synopsis(s *Synopsis) {
	col := s.Margin + s.Indent
	hang := col + ansi.PrintableRuneWidth(s.Command) + 1
	cmd := Text{{Text: s.Command, Style: Bold}}
	words := []word{{spans: cmd, width: cmd.Width()}}
	for _, opt := range s.Options {
		if opt.Operand != nil {
			words = append(words, wordsOf(opt.Operand)...)
			continue
		}
		name := Text{{Text: "["}, {Text: opt.Name, Style: Bold}}
		if opt.Arg == "" {
			t := append(name, Span{Text: "]"})
			words = append(words, word{spans: t, width: t.Width()})
			continue
		}
		arg := Text{{Text: opt.Arg, Style: Underline}, {Text: "]"}}
		whole := name.Width() + 1 + arg.Width()
		if r.mode != NoWrap && whole > r.width-hang {
			words = append(words, word{spans: name, width: name.Width()}, word{spans: arg, width: arg.Width()})
			continue
		}
		t := concatText(name, plain(" "), arg)
		words = append(words, word{spans: t, width: whole})
	}
	if r.mode == NoWrap {
		var line Text
		for i, w := range words {
			if i > 0 {
				line = appendSpan(line, Span{Text: " "})
			}
			line = appendWord(line, w)
		}
		r.emit(truncateText(concatText(plain(spaces(col)), line), r.width))
		return
	}
	r.emit(r.fill(words, col, hang, nil)...)
}

func (r *reflower) link(l *Link) {
	href := l.Href()
	label := make([]Text, 0, len(l.Label)+1)
	for _, t := range l.Label {
		label = append(label, t.withLink(href, Underline))
	}
	tail := l.Punctuation
	if len(label) == 0 {
		label = append(label, Text{{Text: l.Target, Style: Underline, Link: href}})
	} else if l.Target != "" {
		tail = " <" + l.Target + ">" + tail
	}
	if tail != "" {
		last := len(label) - 1
		label[last] = concatText(label[last], plain(tail))
	}
	r.body(label, l.Margin+l.Indent, nil)
}

// titleLine spreads three cells over the width with the slack split evenly,
// the left gap taking the smaller half.
func (r *reflower) titleLine(left, middle, right string) Text {
	lw := ansi.PrintableRuneWidth(left)
	mw := ansi.PrintableRuneWidth(middle)
	rw := ansi.PrintableRuneWidth(right)
	gap := r.width - lw - mw - rw
	if gap < 2 {
		var cells []string
		for _, c := range []string{left, middle, right} {
			if c != "" {
				cells = append(cells, c)
			}
		}
		return truncateText(plain(strings.Join(cells, " ")), r.width)
	}
	line := padding.String(left, uint(lw+gap/2)) + padding.String(middle, uint(mw+gap-gap/2)) + right
	return plain(line)
}

func (r *reflower) emit(lines ...Text) {
	for _, t := range lines {
		r.buf = append(r.buf, trimTrailing(t))
	}
}
