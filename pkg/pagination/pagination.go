package pagination

const (
	// DefaultPerPage is the standard page size when per_page is not provided.
	DefaultPerPage = 10
	// MaxPerPage caps how many rows any listing query can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured defaults and maximum page size.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Meta describes the page window returned alongside listing rows.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
	NextPage    *int  `json:"next_page"`
	PrevPage    *int  `json:"prev_page"`
	Total       int64 `json:"total"`
}

// NewMeta computes page metadata from the normalized params and total row count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()

	lastPage := int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	meta := Meta{
		CurrentPage: n.Page,
		PerPage:     n.PerPage,
		LastPage:    lastPage,
		Total:       total,
	}
	if n.Page < lastPage {
		next := n.Page + 1
		meta.NextPage = &next
	}
	if n.Page > 1 {
		prev := n.Page - 1
		meta.PrevPage = &prev
	}
	return meta
}

// Page bundles rows with their pagination metadata.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
