package manview

import "fmt"

// Page is a fixed-height slice of rendered lines.
type Page struct {
	// Index is the 1-based page number.
	Index int
	Lines []RenderedLine
	// Blank is the number of rows below the last line that hold no content.
	// It is non-zero only on the final page.
	Blank int
}

// Pages is the page set of one reflow.
type Pages struct {
	pages []Page
	lines []RenderedLine
}

// Paginate slices lines into pages of height rows. No lines yield a single
// empty page.
func Paginate(lines []RenderedLine, height int) (Pages, error) {
	if err := checkDimension("height", height); err != nil {
		return Pages{}, fmt.Errorf("paginate: %w", err)
	}
	n := (len(lines) + height - 1) / height
	if n == 0 {
		n = 1
	}
	ps := Pages{pages: make([]Page, 0, n), lines: lines}
	for i := 0; i < n; i++ {
		start := i * height
		end := min(start+height, len(lines))
		chunk := lines[start:end:end]
		ps.pages = append(ps.pages, Page{
			Index: i + 1,
			Lines: chunk,
			Blank: height - len(chunk),
		})
	}
	return ps, nil
}

// Len returns the number of pages.
func (p Pages) Len() int {
	return len(p.pages)
}

// Page returns page n, counting from 1.
func (p Pages) Page(n int) (Page, error) {
	if n < 1 || n > len(p.pages) {
		return Page{}, &PageOutOfRangeError{Page: n, Total: len(p.pages)}
	}
	return p.pages[n-1], nil
}

// Lines returns every rendered line in page order.
func (p Pages) Lines() []RenderedLine {
	return p.lines
}

// PageOfBlock returns the first page showing a line of block i, or 0 when
// the block rendered no lines.
func (p Pages) PageOfBlock(i int) int {
	for _, pg := range p.pages {
		for _, l := range pg.Lines {
			if l.Block == i {
				return pg.Index
			}
		}
	}
	return 0
}

// firstBlock returns the first block shown on page n, or -1.
func (p Pages) firstBlock(n int) int {
	if n < 1 || n > len(p.pages) {
		return -1
	}
	for _, l := range p.pages[n-1].Lines {
		if l.Block >= 0 {
			return l.Block
		}
	}
	return -1
}
