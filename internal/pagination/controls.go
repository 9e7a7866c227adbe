package pagination

// Button is one pagination control.
type Button struct {
	Page    int  `json:"page"`
	Enabled bool `json:"enabled"`
	Active  bool `json:"active"`
}

// Controls describes the pagination UI for the current state: previous and
// next buttons plus one numbered button per page.
type Controls struct {
	Previous Button   `json:"previous"`
	Next     Button   `json:"next"`
	Pages    []Button `json:"pages"`
}

// Controls returns the control state for the current page. The previous
// button is enabled only after page 1, the next button only before the last
// page, and the numbered button of the current page is marked active.
func (p *Paginator) Controls() Controls {
	total := p.TotalPages()
	pages := make([]Button, 0, total)
	for page := 1; page <= total; page++ {
		pages = append(pages, Button{
			Page:    page,
			Enabled: true,
			Active:  page == p.current,
		})
	}
	return Controls{
		Previous: Button{Page: p.current - 1, Enabled: p.HasPrevious()},
		Next:     Button{Page: p.current + 1, Enabled: p.HasNext()},
		Pages:    pages,
	}
}
