package manview

import "fmt"

// DiagnosticKind classifies a condition the parser recovered from.
type DiagnosticKind uint8

const (
	// DiagMalformedArgument: an argument was unparsable or missing and the
	// documented default was used instead.
	DiagMalformedArgument DiagnosticKind = iota
	// DiagUnknownMacro: the macro line was rendered as plain text.
	DiagUnknownMacro
	// DiagUnterminatedBlock: an example, synopsis or link was still open at
	// end of input and was closed implicitly.
	DiagUnterminatedBlock
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMalformedArgument:
		return "malformed macro argument"
	case DiagUnknownMacro:
		return "unknown macro"
	case DiagUnterminatedBlock:
		return "unterminated block"
	default:
		return fmt.Sprintf("diagnostic(%d)", uint8(k))
	}
}

// Diagnostic records one recovered parse condition.
type Diagnostic struct {
	Kind   DiagnosticKind
	Line   int
	Macro  string
	Detail string
}

func (d Diagnostic) String() string {
	if d.Macro == "" {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Detail)
	}
	return fmt.Sprintf("line %d: %s .%s: %s", d.Line, d.Kind, d.Macro, d.Detail)
}
