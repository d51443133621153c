package manview

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func parseTest(t *testing.T, src string) *Document {
	t.Helper()
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	return Parse(src, WithLogger(log))
}

func lineStrings(lines []Text) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func blockAs[T Block](t *testing.T, doc *Document, i int) T {
	t.Helper()
	if i >= len(doc.Blocks) {
		t.Fatalf("block %d missing; document has %d blocks", i, len(doc.Blocks))
	}
	b, ok := doc.Blocks[i].(T)
	if !ok {
		t.Fatalf("block %d: got %T", i, doc.Blocks[i])
	}
	return b
}

func TestParseParagraph(t *testing.T) {
	doc := parseTest(t, ".TH Test\n.P\nHello world this is a test paragraph.\n")
	if doc.Title != "Test" {
		t.Fatalf("title: got %q", doc.Title)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	p := blockAs[*Paragraph](t, doc, 0)
	if p.Indent != 4 || p.Margin != 0 {
		t.Fatalf("layout: got %+v want indent 4 margin 0", p.Layout)
	}
	want := []string{"Hello world this is a test paragraph."}
	if got := lineStrings(p.Lines); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines: got %q want %q", got, want)
	}
}

func TestParseTitleFields(t *testing.T) {
	doc := parseTest(t, `.TH spam 1 "1/1/70" ham bacon`+"\n")
	got := []string{doc.Title, doc.Section, doc.FooterMiddle, doc.FooterInside, doc.HeaderMiddle, doc.FooterOutside}
	want := []string{"spam", "1", "1/1/70", "ham", "bacon", "SPAM(1)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("title fields: got %q want %q", got, want)
	}

	doc = parseTest(t, ".TH first 1 a b c\n.TH second\n")
	if doc.Title != "second" || doc.Section != "" || doc.HeaderMiddle != "" {
		t.Fatalf("last title should win and clear fields: %+v", doc)
	}
}

func TestParseBlankLineClosesParagraph(t *testing.T) {
	doc := parseTest(t, "one\ntwo\n\nthree\n")
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	first := blockAs[*Paragraph](t, doc, 0)
	second := blockAs[*Paragraph](t, doc, 1)
	if got := lineStrings(first.Lines); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("first paragraph: %q", got)
	}
	if got := lineStrings(second.Lines); !reflect.DeepEqual(got, []string{"three"}) {
		t.Fatalf("second paragraph: %q", got)
	}
}

func TestParseHeadings(t *testing.T) {
	doc := parseTest(t, ".SH NAME\n.SS\nNext line\n.SH \"TWO WORDS\"\n.SH\n.P\ntext\n")
	h0 := blockAs[*Heading](t, doc, 0)
	h1 := blockAs[*Heading](t, doc, 1)
	h2 := blockAs[*Heading](t, doc, 2)
	h3 := blockAs[*Heading](t, doc, 3)
	if h0.Text.String() != "NAME" || h0.Level != SectionHeading {
		t.Fatalf("h0: %+v", h0)
	}
	if h1.Text.String() != "Next line" || h1.Level != SubsectionHeading {
		t.Fatalf("h1: %+v", h1)
	}
	if h2.Text.String() != "TWO WORDS" {
		t.Fatalf("h2: %q", h2.Text.String())
	}
	if h3.Text.String() != "" {
		t.Fatalf("heading completed by a macro should be empty, got %q", h3.Text.String())
	}
	blockAs[*Paragraph](t, doc, 4)
}

func TestParseHeadingFromFontMacro(t *testing.T) {
	doc := parseTest(t, ".SH\n.B Bold Heading\ntext\n")
	h := blockAs[*Heading](t, doc, 0)
	if h.Text.String() != "Bold Heading" || h.Text[0].Style != Bold {
		t.Fatalf("heading: %#v", h.Text)
	}
	blockAs[*Paragraph](t, doc, 1)
}

func TestParseTaggedParagraph(t *testing.T) {
	doc := parseTest(t, ".TP\nFoo\nBar baz.\n")
	tp := blockAs[*TaggedParagraph](t, doc, 0)
	if tp.Indent != 4 {
		t.Fatalf("indent: got %d want 4", tp.Indent)
	}
	if got := lineStrings(tp.Tags); !reflect.DeepEqual(got, []string{"Foo"}) {
		t.Fatalf("tags: %q", got)
	}
	if got := lineStrings(tp.Lines); !reflect.DeepEqual(got, []string{"Bar baz."}) {
		t.Fatalf("lines: %q", got)
	}
}

func TestParseTagIndentInheritance(t *testing.T) {
	doc := parseTest(t, ".TP 8\nA\nx\n.TP\nB\ny\n.P\nplain\n.TP\nC\nz\n.IP tag 6\nw\n.TP\nD\nv\n")
	want := []int{8, 8, 4, 4, 6, 6}
	var got []int
	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case *TaggedParagraph:
			got = append(got, b.Indent)
		case *IndentedBlock:
			got = append(got, b.Indent)
		case *Paragraph:
			got = append(got, b.Indent)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("indents: got %v want %v", got, want)
	}
}

func TestParseAdditionalTags(t *testing.T) {
	doc := parseTest(t, ".TP\n.B \\-e\n.TQ\n.B \\-\\-eggs\nPut eggs second.\n")
	tp := blockAs[*TaggedParagraph](t, doc, 0)
	if got := lineStrings(tp.Tags); !reflect.DeepEqual(got, []string{"-e", "--eggs"}) {
		t.Fatalf("tags: %q", got)
	}
	for i, tag := range tp.Tags {
		if tag[0].Style != Bold {
			t.Fatalf("tag %d not bold", i)
		}
	}
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}
}

func TestParseAdditionalTagOutsideTaggedParagraph(t *testing.T) {
	doc := parseTest(t, ".P\ntext\n.TQ\nmore\n")
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != DiagMalformedArgument {
		t.Fatalf("expected one malformed-argument diagnostic, got %v", doc.Diagnostics)
	}
	if doc.Diagnostics[0].Line != 3 || doc.Diagnostics[0].Macro != "TQ" {
		t.Fatalf("diagnostic position: %+v", doc.Diagnostics[0])
	}
	p := blockAs[*Paragraph](t, doc, 0)
	if got := lineStrings(p.Lines); !reflect.DeepEqual(got, []string{"text", "more"}) {
		t.Fatalf("paragraph: %q", got)
	}
}

func TestParseIndentedBlock(t *testing.T) {
	doc := parseTest(t, ".IP \\(bu 2\nbullet\n.IP \"\" 2\nplain\n.IP\nnone\n")
	first := blockAs[*IndentedBlock](t, doc, 0)
	if first.Tag.String() != "•" || first.Indent != 2 {
		t.Fatalf("first: tag %q indent %d", first.Tag.String(), first.Indent)
	}
	second := blockAs[*IndentedBlock](t, doc, 1)
	if second.Tag != nil || second.Indent != 2 {
		t.Fatalf("second: tag %#v indent %d", second.Tag, second.Indent)
	}
	third := blockAs[*IndentedBlock](t, doc, 2)
	if third.Indent != 2 {
		t.Fatalf("third should inherit indent 2, got %d", third.Indent)
	}
}

func TestParseMarginStack(t *testing.T) {
	doc := parseTest(t, strings.Join([]string{
		".P",
		"top",
		".RS",
		"one level",
		".RS 2",
		"two levels",
		".RE",
		"back to one",
		".RE",
		".RE",
		"top again",
		".RS 3",
		".RS 3",
		".RE 5",
		"popped both",
	}, "\n"))
	want := []int{0, 4, 6, 4, 0, 0}
	var got []int
	for _, b := range doc.Blocks {
		got = append(got, b.(*Paragraph).Margin)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("margins: got %v want %v", got, want)
	}
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("popping an empty stack is not an error: %v", doc.Diagnostics)
	}
}

func TestParseMarginPopCountsEntries(t *testing.T) {
	doc := parseTest(t, ".RS 8\ninside\n.RE\nafter\n")
	inside := blockAs[*Paragraph](t, doc, 0)
	after := blockAs[*Paragraph](t, doc, 1)
	if inside.Margin != 8 || after.Margin != 0 {
		t.Fatalf("margins: got %d and %d want 8 and 0", inside.Margin, after.Margin)
	}
}

func TestParseHeadingResetsMargins(t *testing.T) {
	doc := parseTest(t, ".RS\n.RS\n.SH NEXT\ntext\n")
	p := blockAs[*Paragraph](t, doc, 1)
	if p.Margin != 0 || p.Indent != 4 {
		t.Fatalf("layout after heading: %+v", p.Layout)
	}
}

func TestParseExampleVerbatim(t *testing.T) {
	doc := parseTest(t, ".EX\n  literal   spacing\n.B not a font\n\n\\fBraw\\fR\n.EE\nafter\n")
	ex := blockAs[*Example](t, doc, 0)
	want := []string{"  literal   spacing", ".B not a font", "", `\fBraw\fR`}
	if !reflect.DeepEqual(ex.Lines, want) {
		t.Fatalf("example lines: got %q want %q", ex.Lines, want)
	}
	blockAs[*Paragraph](t, doc, 1)
}

func TestParseUnknownMacroFallsBackToText(t *testing.T) {
	doc := parseTest(t, ".ZZ foo\n")
	p := blockAs[*Paragraph](t, doc, 0)
	if got := lineStrings(p.Lines); !reflect.DeepEqual(got, []string{".ZZ foo"}) {
		t.Fatalf("lines: %q", got)
	}
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != DiagUnknownMacro {
		t.Fatalf("diagnostics: %v", doc.Diagnostics)
	}
}

func TestParseUnknownMacroCompletesPendingValue(t *testing.T) {
	doc := parseTest(t, ".SH\n.ZZ foo\ntext\n.TP\n.YY tag\nbody\n")
	h := blockAs[*Heading](t, doc, 0)
	if h.Text.String() != ".ZZ foo" {
		t.Fatalf("heading: %q", h.Text.String())
	}
	if got := lineStrings(blockAs[*Paragraph](t, doc, 1).Lines); !reflect.DeepEqual(got, []string{"text"}) {
		t.Fatalf("paragraph: %q", got)
	}
	tp := blockAs[*TaggedParagraph](t, doc, 2)
	if got := lineStrings(tp.Tags); !reflect.DeepEqual(got, []string{".YY tag"}) {
		t.Fatalf("tags: %q", got)
	}
	if got := lineStrings(tp.Lines); !reflect.DeepEqual(got, []string{"body"}) {
		t.Fatalf("body: %q", got)
	}
	if len(doc.Diagnostics) != 2 {
		t.Fatalf("diagnostics: %v", doc.Diagnostics)
	}
	for _, d := range doc.Diagnostics {
		if d.Kind != DiagUnknownMacro {
			t.Fatalf("unexpected diagnostic %v", d)
		}
	}
}

func TestParseFontMacros(t *testing.T) {
	doc := parseTest(t, ".P\nspam eggs\n.B baked beans\nbacon ham\n.BR ls (1)\n")
	p := blockAs[*Paragraph](t, doc, 0)
	if got := lineStrings(p.Lines); !reflect.DeepEqual(got, []string{"spam eggs", "baked beans", "bacon ham", "ls(1)"}) {
		t.Fatalf("lines: %q", got)
	}
	if p.Lines[1][0].Style != Bold {
		t.Fatalf("expected bold line")
	}
	if p.Lines[3][0].Style != Bold || p.Lines[3][1].Style != Plain {
		t.Fatalf("alternation styles: %#v", p.Lines[3])
	}
}

func TestParseDeferredFont(t *testing.T) {
	doc := parseTest(t, ".P\n.I\nunder\nplain\n.B\n\nnot bold\n")
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	p := blockAs[*Paragraph](t, doc, 0)
	if p.Lines[0][0].Style != Underline || p.Lines[1][0].Style != Plain {
		t.Fatalf("deferred font should apply to exactly one line: %#v", p.Lines)
	}
	q := blockAs[*Paragraph](t, doc, 1)
	if q.Lines[0][0].Style != Plain {
		t.Fatalf("blank line should clear the deferred font: %#v", q.Lines)
	}
}

func TestParseSynopsis(t *testing.T) {
	doc := parseTest(t, ".SY spam\n.OP \\-s spam\n.OP \\-e\n.I file\n.YS\n.SY ham\n.YS\n")
	s := blockAs[*Synopsis](t, doc, 0)
	if s.Command != "spam" {
		t.Fatalf("command: %q", s.Command)
	}
	if len(s.Options) != 3 {
		t.Fatalf("options: %+v", s.Options)
	}
	if s.Options[0].Name != "-s" || s.Options[0].Arg != "spam" {
		t.Fatalf("option 0: %+v", s.Options[0])
	}
	if s.Options[1].Name != "-e" || s.Options[1].Arg != "" {
		t.Fatalf("option 1: %+v", s.Options[1])
	}
	if s.Options[2].Operand.String() != "file" || s.Options[2].Operand[0].Style != Underline {
		t.Fatalf("operand: %+v", s.Options[2])
	}
	if blockAs[*Synopsis](t, doc, 1).Command != "ham" {
		t.Fatalf("second synopsis missing")
	}
}

func TestParseOptionOutsideSynopsis(t *testing.T) {
	doc := parseTest(t, ".OP \\-x\n")
	if len(doc.Blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(doc.Blocks))
	}
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != DiagMalformedArgument {
		t.Fatalf("diagnostics: %v", doc.Diagnostics)
	}
}

func TestParseLinks(t *testing.T) {
	doc := parseTest(t, ".MT bugs@example.com\nthe\nmaintainers\n.ME .\n.UR https://example.com\nhome page\n.UE\n")
	mail := blockAs[*Link](t, doc, 0)
	if mail.Kind != MailLink || mail.Target != "bugs@example.com" || mail.Punctuation != "." {
		t.Fatalf("mail link: %+v", mail)
	}
	if got := lineStrings(mail.Label); !reflect.DeepEqual(got, []string{"the", "maintainers"}) {
		t.Fatalf("mail label: %q", got)
	}
	if mail.Href() != "mailto:bugs@example.com" {
		t.Fatalf("href: %q", mail.Href())
	}
	url := blockAs[*Link](t, doc, 1)
	if url.Kind != URLLink || url.Href() != "https://example.com" || url.Punctuation != "" {
		t.Fatalf("url link: %+v", url)
	}
}

func TestParseLinkClosedByBlockMacro(t *testing.T) {
	doc := parseTest(t, ".UR https://example.com\nlabel\n.SH NEXT\n")
	link := blockAs[*Link](t, doc, 0)
	if got := lineStrings(link.Label); !reflect.DeepEqual(got, []string{"label"}) {
		t.Fatalf("label: %q", got)
	}
	blockAs[*Heading](t, doc, 1)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("implicit close is not an error: %v", doc.Diagnostics)
	}
}

func TestParseUnterminatedBlocksAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	doc := Parse(".EX\ncode\n", WithLogger(zap.New(core)))
	ex := blockAs[*Example](t, doc, 0)
	if !reflect.DeepEqual(ex.Lines, []string{"code"}) {
		t.Fatalf("example: %q", ex.Lines)
	}
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != DiagUnterminatedBlock {
		t.Fatalf("diagnostics: %v", doc.Diagnostics)
	}
	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["macro"] != "EX" || fields["line"] != int64(2) {
		t.Fatalf("warning fields: %v", fields)
	}

	for _, src := range []string{".SY spam\n.OP \\-s\n", ".MT a@b\nlabel\n"} {
		doc := Parse(src, WithLogger(zap.New(core)))
		if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != DiagUnterminatedBlock {
			t.Fatalf("%q: diagnostics %v", src, doc.Diagnostics)
		}
	}
}

func TestParseUnknownMacroLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Parse(".ZZ foo\n", WithLogger(zap.New(core)))
	if n := logs.FilterLevelExact(zapcore.DebugLevel).FilterMessage(DiagUnknownMacro.String()).Len(); n != 1 {
		t.Fatalf("expected one debug entry, got %d", n)
	}
}

func TestParseMalformedIndentUsesDefault(t *testing.T) {
	doc := parseTest(t, ".TP wide\ntag\nbody\n.RS x\ntext\n")
	tp := blockAs[*TaggedParagraph](t, doc, 0)
	if tp.Indent != 4 {
		t.Fatalf("indent: got %d want 4", tp.Indent)
	}
	p := blockAs[*Paragraph](t, doc, 1)
	if p.Margin != 4 {
		t.Fatalf("margin: got %d want 4", p.Margin)
	}
	if len(doc.Diagnostics) != 2 {
		t.Fatalf("diagnostics: %v", doc.Diagnostics)
	}
	for _, d := range doc.Diagnostics {
		if d.Kind != DiagMalformedArgument {
			t.Fatalf("unexpected diagnostic %v", d)
		}
	}
}

func TestParseSamplePage(t *testing.T) {
	src, err := os.ReadFile("testdata/spam.1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := parseTest(t, string(src))
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}
	if doc.FooterOutside != "SPAM(1)" || doc.HeaderMiddle != "General Commands Manual" {
		t.Fatalf("title fields: %+v", doc)
	}
	counts := map[string]int{}
	for _, b := range doc.Blocks {
		switch b.(type) {
		case *Heading:
			counts["heading"]++
		case *Synopsis:
			counts["synopsis"]++
		case *TaggedParagraph:
			counts["tagged"]++
		case *IndentedBlock:
			counts["indented"]++
		case *Example:
			counts["example"]++
		case *Link:
			counts["link"]++
		}
	}
	want := map[string]int{"heading": 8, "synopsis": 2, "tagged": 3, "indented": 2, "example": 1, "link": 2}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("block counts: got %v want %v", counts, want)
	}
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		".TP\n", ".TQ\n", ".SH\n", ".MT\n", ".UR\n.UE\n", ".SY\n", ".RE 100\n", ".IP\n", ".EE\n.YS\n.ME\n",
		"\\f", "\\", ".B\n.I\n.SM\n", ".BI\n", "\"\n",
	}
	for _, in := range inputs {
		if doc := Parse(in); doc == nil {
			t.Fatalf("Parse(%q) returned nil", in)
		}
	}
}
