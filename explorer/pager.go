package explorer

// Pager tracks the page position within a result set. Pages are 1-based.
type Pager struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

func (p Pager) HasPrev() bool {
	return p.Page > 1
}

func (p Pager) HasNext() bool {
	return p.TotalPages > 0 && p.Page < p.TotalPages
}

func (p Pager) Next() Pager {
	if p.HasNext() {
		p.Page++
	}
	return p
}

func (p Pager) Prev() Pager {
	if p.HasPrev() {
		p.Page--
	}
	return p
}
