package pagination

// Paginator is the page-navigation state machine for one view.
//
// States are pages 1..TotalPages and the initial state is page 1. Requests
// for a page outside that range are ignored rather than clamped. A Paginator
// belongs to a single view and is not safe for concurrent use.
type Paginator struct {
	total    int
	pageSize int
	current  int
	onChange func(page int)
}

// New creates a Paginator over total items positioned on page 1.
func New(total, pageSize int) *Paginator {
	return &Paginator{
		total:    total,
		pageSize: pageSize,
		current:  1,
	}
}

// OnChange registers fn to receive the new page after every transition.
// The view stores the page; the Paginator only emits it.
func (p *Paginator) OnChange(fn func(page int)) {
	p.onChange = fn
}

// Current returns the current page.
func (p *Paginator) Current() int {
	return p.current
}

// PageSize returns the configured page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// TotalItems returns the number of items being paged.
func (p *Paginator) TotalItems() int {
	return p.total
}

// TotalPages returns the number of pages.
func (p *Paginator) TotalPages() int {
	return TotalPages(p.total, p.pageSize)
}

// Valid reports whether page is a reachable state.
func (p *Paginator) Valid(page int) bool {
	return page >= 1 && page <= p.TotalPages()
}

// RequestPageChange moves to page if it is in range and returns the new
// current page and true. Out-of-range requests leave the state unchanged and
// return the current page and false.
func (p *Paginator) RequestPageChange(page int) (int, bool) {
	if !p.Valid(page) {
		return p.current, false
	}
	p.current = page
	if p.onChange != nil {
		p.onChange(page)
	}
	return page, true
}

// Previous moves back one page. It is a no-op on page 1.
func (p *Paginator) Previous() bool {
	_, ok := p.RequestPageChange(p.current - 1)
	return ok
}

// Next moves forward one page. It is a no-op on the last page.
func (p *Paginator) Next() bool {
	_, ok := p.RequestPageChange(p.current + 1)
	return ok
}

// GoTo moves directly to page.
func (p *Paginator) GoTo(page int) bool {
	_, ok := p.RequestPageChange(page)
	return ok
}

// HasPrevious reports whether Previous would transition.
func (p *Paginator) HasPrevious() bool {
	return p.current > 1
}

// HasNext reports whether Next would transition.
func (p *Paginator) HasNext() bool {
	return p.current < p.TotalPages()
}

// Bounds returns the index range of the current page.
func (p *Paginator) Bounds() (start, end int) {
	return Bounds(p.total, p.pageSize, p.current)
}
