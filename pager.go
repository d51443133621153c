package manview

import "fmt"

// Pager keeps the page set of one document in step with the viewport. The
// pages are rebuilt from a fresh reflow the first time they are needed after
// the width, height or wrap mode changes. A Pager is not safe for concurrent
// use.
type Pager struct {
	doc    *Document
	width  int
	height int
	mode   WrapMode
	opts   []RenderOption

	pages Pages
	valid bool
	prev  Pages
}

// NewPager returns a pager for doc.
func NewPager(doc *Document, width, height int, mode WrapMode, opts ...RenderOption) (*Pager, error) {
	if err := checkDimension("width", width); err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	if err := checkDimension("height", height); err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	return &Pager{doc: doc, width: width, height: height, mode: mode, opts: opts}, nil
}

// Document returns the document being paged.
func (p *Pager) Document() *Document { return p.doc }

// Size returns the current viewport.
func (p *Pager) Size() (width, height int) { return p.width, p.height }

// WrapMode returns the current wrap mode.
func (p *Pager) WrapMode() WrapMode { return p.mode }

// SetSize changes the viewport and invalidates the pages.
func (p *Pager) SetSize(width, height int) error {
	if err := checkDimension("width", width); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	if err := checkDimension("height", height); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	if width == p.width && height == p.height {
		return nil
	}
	p.width, p.height = width, height
	p.invalidate()
	return nil
}

// SetWrapMode changes the wrap mode and invalidates the pages.
func (p *Pager) SetWrapMode(mode WrapMode) {
	if mode == p.mode {
		return
	}
	p.mode = mode
	p.invalidate()
}

func (p *Pager) invalidate() {
	if p.valid {
		p.prev = p.pages
	}
	p.pages = Pages{}
	p.valid = false
}

// Pages returns the current page set.
func (p *Pager) Pages() (Pages, error) {
	if p.valid {
		return p.pages, nil
	}
	lines, err := Reflow(p.doc, p.width, p.mode, p.opts...)
	if err != nil {
		return Pages{}, err
	}
	pages, err := Paginate(lines, p.height)
	if err != nil {
		return Pages{}, err
	}
	p.pages, p.valid = pages, true
	return pages, nil
}

// PageCount returns the number of pages in the current layout.
func (p *Pager) PageCount() (int, error) {
	pages, err := p.Pages()
	if err != nil {
		return 0, err
	}
	return pages.Len(), nil
}

// Page returns page n of the current layout.
func (p *Pager) Page(n int) (Page, error) {
	pages, err := p.Pages()
	if err != nil {
		return Page{}, err
	}
	return pages.Page(n)
}

// Relocate maps page n of the layout in effect before the last change to
// the page of the current layout that shows the same first block. Without
// an earlier layout, or when n did not show a block, n is clamped to the
// current page range. The earlier layout is used by one call only; a second
// call without a change in between just clamps.
func (p *Pager) Relocate(n int) (int, error) {
	pages, err := p.Pages()
	if err != nil {
		return 0, err
	}
	prev := p.prev
	p.prev = Pages{}
	if b := prev.firstBlock(n); b >= 0 {
		if page := pages.PageOfBlock(b); page > 0 {
			return page, nil
		}
	}
	return min(max(n, 1), pages.Len()), nil
}
