package manview

import (
	"strings"

	"go.uber.org/zap"
)

// defaultIndent is the indent of paragraph bodies, tagged paragraphs and
// margin pushes when no argument says otherwise.
const defaultIndent = 4

// marginStack holds the relative margins pushed by .RS. Entries are never
// negative and popping an empty stack does nothing.
type marginStack []int

func (m *marginStack) push(n int) {
	if n < 0 {
		n = 0
	}
	*m = append(*m, n)
}

// pop removes the last n pushed entries, not n cells of margin, so .RS 8
// followed by .RE returns to the previous margin. It stops at an empty stack.
func (m *marginStack) pop(n int) {
	if n > len(*m) {
		n = len(*m)
	}
	*m = (*m)[:len(*m)-n]
}

func (m *marginStack) reset() { *m = (*m)[:0] }

func (m marginStack) sum() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// state is the interpreter's current mode. Each awaiting state carries the
// block it completes.
type state interface {
	isState()
}

type stateDefault struct{}

type awaitHeading struct {
	level HeadingLevel
}

type awaitTag struct {
	block *TaggedParagraph
}

type awaitLinkLabel struct {
	link *Link
}

type inExample struct {
	example *Example
}

func (stateDefault) isState()   {}
func (awaitHeading) isState()   {}
func (awaitTag) isState()       {}
func (awaitLinkLabel) isState() {}
func (inExample) isState()      {}

// interpreter turns classified lines into document blocks. One interpreter
// serves exactly one Parse call.
type interpreter struct {
	doc   *Document
	log   *zap.Logger
	state state

	margins    marginStack
	tagIndent  int
	bodyIndent int

	open     bodyBlock
	synopsis *Synopsis

	// pending is the one-shot font set by a font macro without arguments.
	pending    Style
	hasPending bool

	// last is the number of the most recent line, used for end-of-input
	// diagnostics.
	last int
}

func newInterpreter(log *zap.Logger) *interpreter {
	return &interpreter{
		doc:        &Document{},
		log:        log,
		state:      stateDefault{},
		tagIndent:  defaultIndent,
		bodyIndent: defaultIndent,
	}
}

func (in *interpreter) run(lines []Line) *Document {
	for _, l := range lines {
		in.step(l)
	}
	in.finish()
	return in.doc
}

func (in *interpreter) step(l Line) {
	in.last = l.Number
	if _, ok := in.state.(inExample); !ok && l.Kind == MacroLine && l.macro == macroUnknown {
		in.diag(DiagUnknownMacro, l, "rendered as text")
		l = Line{Kind: TextLine, Content: l.Content, Number: l.Number}
	}
	switch st := in.state.(type) {
	case inExample:
		in.stepExample(st, l)
	case awaitHeading:
		in.stepHeading(st, l)
	case awaitTag:
		in.stepTag(st, l)
	case awaitLinkLabel:
		in.stepLinkLabel(st, l)
	default:
		in.stepDefault(l)
	}
}

func (in *interpreter) stepExample(st inExample, l Line) {
	if l.Kind == MacroLine && l.macro == macroExampleEnd {
		in.closeExample(st.example)
		return
	}
	st.example.Lines = append(st.example.Lines, l.Content)
}

func (in *interpreter) stepHeading(st awaitHeading, l Line) {
	switch l.Kind {
	case CommentLine:
		return
	case TextLine:
		in.heading(in.resolve(l), st.level)
		return
	}
	if text, ok := in.fontLine(l); ok {
		if text != nil {
			in.heading(text, st.level)
		}
		return
	}
	in.heading(nil, st.level)
	in.stepDefault(l)
}

func (in *interpreter) stepTag(st awaitTag, l Line) {
	switch l.Kind {
	case CommentLine:
		return
	case TextLine:
		in.addTag(st.block, in.resolve(l))
		return
	}
	if text, ok := in.fontLine(l); ok {
		if text != nil {
			in.addTag(st.block, text)
		}
		return
	}
	in.addTag(st.block, nil)
	in.stepDefault(l)
}

func (in *interpreter) stepLinkLabel(st awaitLinkLabel, l Line) {
	switch l.Kind {
	case CommentLine:
		return
	case TextLine:
		if !l.Blank() {
			st.link.Label = append(st.link.Label, in.resolve(l))
		}
		return
	}
	if text, ok := in.fontLine(l); ok {
		if text != nil {
			st.link.Label = append(st.link.Label, text)
		}
		return
	}
	if l.macro == macroMailEnd || l.macro == macroURLEnd {
		in.closeLink(st.link, splitArgs(l.Args))
		return
	}
	in.closeLink(st.link, nil)
	in.stepDefault(l)
}

// fontLine handles a font macro while a value is awaited. ok is false for
// any other macro. A nil text with ok set means the font was deferred to the
// next line.
func (in *interpreter) fontLine(l Line) (Text, bool) {
	if !l.macro.isFont() {
		return nil, false
	}
	args := splitArgs(l.Args)
	if text, ok := fontText(l.macro, args); ok {
		return text, true
	}
	if style, ok := l.macro.font(); ok {
		in.pending, in.hasPending = style, true
	}
	return nil, true
}

func (in *interpreter) stepDefault(l Line) {
	switch l.Kind {
	case CommentLine:
		return
	case TextLine:
		in.textLine(l)
		return
	}

	args := splitArgs(l.Args)
	switch l.macro {
	case macroTitle:
		in.title(args)
	case macroSection, macroSubsection:
		level := SectionHeading
		if l.macro == macroSubsection {
			level = SubsectionHeading
		}
		in.closeBlocks()
		if len(args) == 0 {
			in.state = awaitHeading{level: level}
			return
		}
		in.heading(ResolveInline(strings.Join(args, " "), Plain), level)
	case macroParagraph:
		in.closeBlocks()
		in.tagIndent = defaultIndent
		in.bodyIndent = defaultIndent
	case macroMarginPush:
		in.closeBlocks()
		in.margins.push(in.intArg(l, args, 0, defaultIndent))
	case macroMarginPop:
		in.closeBlocks()
		in.margins.pop(in.intArg(l, args, 0, 1))
	case macroTagged:
		in.closeBlocks()
		tp := &TaggedParagraph{Layout: Layout{Indent: in.tagIndentArg(l, args, 0)}}
		in.doc.Blocks = append(in.doc.Blocks, tp)
		in.open = tp
		in.state = awaitTag{block: tp}
	case macroTagAdd:
		tp, ok := in.open.(*TaggedParagraph)
		if !ok || !tp.acceptsTags() {
			in.diag(DiagMalformedArgument, l, "no tagged paragraph accepting tags")
			return
		}
		in.state = awaitTag{block: tp}
	case macroIndented:
		in.closeBlocks()
		ib := &IndentedBlock{Layout: Layout{Indent: in.tagIndentArg(l, args, 1)}}
		if len(args) > 0 && args[0] != "" {
			ib.Tag = ResolveInline(args[0], Plain)
		}
		in.doc.Blocks = append(in.doc.Blocks, ib)
		in.open = ib
	case macroExampleBegin:
		in.closeBlocks()
		ex := &Example{Layout: Layout{Indent: in.bodyIndent}}
		in.doc.Blocks = append(in.doc.Blocks, ex)
		in.state = inExample{example: ex}
	case macroSynopsisBegin:
		in.closeBlocks()
		s := &Synopsis{Layout: Layout{Indent: in.bodyIndent}}
		if len(args) == 0 {
			in.diag(DiagMalformedArgument, l, "missing command name")
		} else {
			s.Command = ResolveInline(args[0], Plain).String()
		}
		in.doc.Blocks = append(in.doc.Blocks, s)
		in.synopsis = s
	case macroSynopsisOption:
		if in.synopsis == nil {
			in.diag(DiagMalformedArgument, l, "option outside synopsis")
			return
		}
		if len(args) == 0 {
			in.diag(DiagMalformedArgument, l, "missing option name")
			return
		}
		opt := Option{Name: ResolveInline(args[0], Plain).String()}
		if len(args) > 1 {
			opt.Arg = ResolveInline(strings.Join(args[1:], " "), Plain).String()
		}
		in.synopsis.Options = append(in.synopsis.Options, opt)
	case macroSynopsisEnd:
		in.closeSynopsis()
	case macroMailBegin, macroURLBegin:
		in.closeBlocks()
		link := &Link{Kind: URLLink, Layout: Layout{Indent: in.bodyIndent}}
		if l.macro == macroMailBegin {
			link.Kind = MailLink
		}
		if len(args) == 0 {
			in.diag(DiagMalformedArgument, l, "missing link target")
		} else {
			link.Target = args[0]
		}
		in.doc.Blocks = append(in.doc.Blocks, link)
		in.state = awaitLinkLabel{link: link}
	case macroExampleEnd, macroMailEnd, macroURLEnd:
		in.log.Debug("ignoring stray end macro", zap.Int("line", l.Number), zap.String("macro", l.Name))
	default:
		in.fontMacro(l, args)
	}
}

func (in *interpreter) fontMacro(l Line, args []string) {
	if text, ok := fontText(l.macro, args); ok {
		in.appendText(text)
		return
	}
	if style, ok := l.macro.font(); ok {
		in.pending, in.hasPending = style, true
		return
	}
	in.diag(DiagMalformedArgument, l, "font alternation without arguments")
}

func (in *interpreter) textLine(l Line) {
	if l.Blank() {
		in.hasPending = false
		if in.synopsis == nil {
			in.closeOpen()
		}
		return
	}
	in.appendText(in.resolve(l))
}

// resolve applies the pending font, if any, to one text line and clears it.
func (in *interpreter) resolve(l Line) Text {
	base := Plain
	if in.hasPending {
		base = in.pending
		in.hasPending = false
	}
	if l.Blank() {
		return nil
	}
	return ResolveInline(l.Content, base)
}

func (in *interpreter) appendText(t Text) {
	if in.synopsis != nil {
		in.synopsis.Options = append(in.synopsis.Options, Option{Operand: t})
		return
	}
	if in.open == nil {
		p := &Paragraph{Layout: Layout{Indent: in.bodyIndent}}
		in.doc.Blocks = append(in.doc.Blocks, p)
		in.open = p
	}
	in.open.appendLine(t)
}

func (in *interpreter) title(args []string) {
	fields := []*string{
		&in.doc.Title,
		&in.doc.Section,
		&in.doc.FooterMiddle,
		&in.doc.FooterInside,
		&in.doc.HeaderMiddle,
	}
	for i, f := range fields {
		*f = ""
		if i < len(args) {
			*f = ResolveInline(args[i], Plain).String()
		}
	}
	in.doc.FooterOutside = pageTitle(in.doc.Title, in.doc.Section)
}

func (in *interpreter) heading(t Text, level HeadingLevel) {
	in.doc.Blocks = append(in.doc.Blocks, &Heading{Text: t, Level: level})
	in.margins.reset()
	in.bodyIndent = defaultIndent
	in.state = stateDefault{}
}

func (in *interpreter) addTag(tp *TaggedParagraph, t Text) {
	tp.Tags = append(tp.Tags, t)
	in.state = stateDefault{}
}

// closeBlocks closes every block a structural macro terminates.
func (in *interpreter) closeBlocks() {
	in.closeOpen()
	in.closeSynopsis()
	in.hasPending = false
}

func (in *interpreter) closeOpen() {
	if in.open == nil {
		return
	}
	lay := in.open.layout()
	lay.Margin = in.margins.sum()
	in.bodyIndent = lay.Indent
	in.open = nil
}

func (in *interpreter) closeSynopsis() {
	if in.synopsis == nil {
		return
	}
	in.synopsis.Margin = in.margins.sum()
	in.synopsis = nil
}

func (in *interpreter) closeExample(ex *Example) {
	ex.Margin = in.margins.sum()
	in.state = stateDefault{}
}

func (in *interpreter) closeLink(link *Link, args []string) {
	link.Margin = in.margins.sum()
	if len(args) > 0 {
		link.Punctuation = args[0]
	}
	in.state = stateDefault{}
}

// finish closes whatever is still open at end of input.
func (in *interpreter) finish() {
	end := Line{Number: in.last}
	switch st := in.state.(type) {
	case inExample:
		end.Name = "EX"
		in.diag(DiagUnterminatedBlock, end, "example closed at end of input")
		in.closeExample(st.example)
	case awaitHeading:
		in.heading(nil, st.level)
	case awaitTag:
		in.addTag(st.block, nil)
	case awaitLinkLabel:
		end.Name = "UR"
		if st.link.Kind == MailLink {
			end.Name = "MT"
		}
		in.diag(DiagUnterminatedBlock, end, "link closed at end of input")
		in.closeLink(st.link, nil)
	}
	in.closeOpen()
	if in.synopsis != nil {
		end.Name = "SY"
		in.diag(DiagUnterminatedBlock, end, "synopsis closed at end of input")
		in.closeSynopsis()
	}
}

// tagIndentArg resolves the indent of .TP and .IP. A missing argument
// inherits the previous tagged indent; the result becomes the new default.
func (in *interpreter) tagIndentArg(l Line, args []string, i int) int {
	if i < len(args) {
		if n, ok := parseIndent(args[i]); ok {
			in.tagIndent = n
		} else {
			in.diag(DiagMalformedArgument, l, "indent "+args[i]+" is not a number")
		}
	}
	return in.tagIndent
}

func (in *interpreter) intArg(l Line, args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	n, ok := parseIndent(args[i])
	if !ok {
		in.diag(DiagMalformedArgument, l, "argument "+args[i]+" is not a number")
		return def
	}
	return n
}

func (in *interpreter) diag(kind DiagnosticKind, l Line, detail string) {
	d := Diagnostic{Kind: kind, Line: l.Number, Macro: l.Name, Detail: detail}
	in.doc.Diagnostics = append(in.doc.Diagnostics, d)
	fields := []zap.Field{
		zap.Int("line", d.Line),
		zap.String("macro", d.Macro),
		zap.String("detail", d.Detail),
	}
	if kind == DiagUnknownMacro {
		in.log.Debug(kind.String(), fields...)
		return
	}
	in.log.Warn(kind.String(), fields...)
}
