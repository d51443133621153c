// Package manview renders man(7)-style macro documents for terminal paging.
//
// The package is a pure pipeline: raw text is classified line by line,
// interpreted into a styled document tree, reflowed for a viewport width and
// wrap mode, then sliced into fixed-height pages. Nothing in the core reads a
// keyboard or writes to a screen; the terminal adapter in ansi.go and the
// manview command are thin collaborators on top.
//
// Core properties:
//   - Forgiving parse: unknown macros and bad arguments degrade, never fail
//   - Width-independent document tree; wrapping happens in Reflow only
//   - Example regions are reproduced verbatim in every wrap mode
//   - Deterministic output and stable 1-based page addressing
//
// Example:
//
//	doc := manview.Parse(".TH LS 1\n.SH NAME\nls \\- list directory contents\n")
//	lines, err := manview.Reflow(doc, 80, manview.FullReflow)
//	if err != nil {
//		log.Fatal(err)
//	}
//	pages, err := manview.Paginate(lines, 24)
//	if err != nil {
//		log.Fatal(err)
//	}
//	first, _ := pages.Page(1)
//	_ = manview.WriteANSI(os.Stdout, first.Lines, manview.DefaultTheme())
//
// Callers that keep a document open across terminal resizes should use a
// Pager, which recomputes pages wholesale whenever the viewport changes.
package manview
