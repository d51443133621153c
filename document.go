package manview

import "strings"

// Document is the parsed form of a macro document. It is built once by Parse
// and not modified afterwards.
type Document struct {
	Title         string
	Section       string
	FooterMiddle  string
	FooterInside  string
	FooterOutside string
	HeaderMiddle  string
	Blocks        []Block
	// Diagnostics lists the conditions Parse recovered from, in input order.
	Diagnostics []Diagnostic
}

// Block is one structural unit of a document. The set of implementations is
// closed: *Heading, *Paragraph, *TaggedParagraph, *IndentedBlock, *Example,
// *Synopsis and *Link.
type Block interface {
	block()
}

// Layout carries the horizontal placement shared by indented blocks.
// The effective left margin of the block body is Margin + Indent.
type Layout struct {
	// Indent is the block's own indent, always >= 0.
	Indent int
	// Margin is the sum of the margin stack when the block was closed.
	Margin int
}

func (l *Layout) layout() *Layout { return l }

// HeadingLevel distinguishes section headings from subsections.
type HeadingLevel uint8

const (
	SectionHeading HeadingLevel = iota
	SubsectionHeading
)

// Heading is a section or subsection heading.
type Heading struct {
	Text  Text
	Level HeadingLevel
}

// Paragraph is running prose. Lines keeps the source line breaks.
type Paragraph struct {
	Layout
	Lines []Text
}

// TaggedParagraph is a paragraph with one or more tags hanging in the margin.
type TaggedParagraph struct {
	Layout
	Tags  []Text
	Lines []Text
}

// IndentedBlock is an indented paragraph with an optional tag.
type IndentedBlock struct {
	Layout
	Tag   Text
	Lines []Text
}

// Example holds verbatim lines that are never wrapped or truncated.
type Example struct {
	Layout
	Lines []string
}

// Option is one entry of a command synopsis. Operand entries carry free
// text from the synopsis body instead of a bracketed option.
type Option struct {
	Name    string
	Arg     string
	Operand Text
}

// Synopsis is a command synopsis with its options.
type Synopsis struct {
	Layout
	Command string
	Options []Option
}

// LinkKind distinguishes mail addresses from URLs.
type LinkKind uint8

const (
	MailLink LinkKind = iota
	URLLink
)

// Link is a hyperlink or mail address with a label.
type Link struct {
	Layout
	Kind        LinkKind
	Target      string
	Label       []Text
	Punctuation string
}

// Href returns the link target as a URI.
func (l *Link) Href() string {
	if l.Kind == MailLink {
		return "mailto:" + l.Target
	}
	return l.Target
}

func (*Heading) block()         {}
func (*Paragraph) block()       {}
func (*TaggedParagraph) block() {}
func (*IndentedBlock) block()   {}
func (*Example) block()         {}
func (*Synopsis) block()        {}
func (*Link) block()            {}

// bodyBlock is a block that accumulates text lines until closed.
type bodyBlock interface {
	Block
	layout() *Layout
	appendLine(Text)
}

func (p *Paragraph) appendLine(t Text)       { p.Lines = append(p.Lines, t) }
func (p *TaggedParagraph) appendLine(t Text) { p.Lines = append(p.Lines, t) }
func (p *IndentedBlock) appendLine(t Text)   { p.Lines = append(p.Lines, t) }

// acceptsTags reports whether further tags may still be added.
func (p *TaggedParagraph) acceptsTags() bool { return len(p.Lines) == 0 }

// pageTitle formats the TITLE(section) cell used in header and footer lines.
func pageTitle(title, section string) string {
	title = strings.ToUpper(title)
	if title == "" || section == "" {
		return title
	}
	return title + "(" + section + ")"
}
