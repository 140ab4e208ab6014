package domain

// DefaultPerPage is the page size when none is specified.
const DefaultPerPage = 25

// MaxPerPage is the maximum allowed page size.
const MaxPerPage = 100

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PageRequest holds pagination, sorting, and search parameters for list
// operations. Zero values fall back to defaults via the accessor methods.
type PageRequest struct {
	Page      int // 1-based
	PerPage   int
	SortBy    string
	SortOrder SortOrder
	Search    string
}

// Limit returns the effective page size, clamped to [1, MaxPerPage].
func (p PageRequest) Limit() int {
	if p.PerPage <= 0 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}

// Offset returns the row offset implied by Page and the effective limit.
func (p PageRequest) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// Order returns the effective sort order, defaulting to ascending.
func (p PageRequest) Order() SortOrder {
	if p.SortOrder == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// PageMeta describes a page of results for the response envelope.
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPageMeta computes pagination metadata from a request and total count.
func NewPageMeta(p PageRequest, total int64) PageMeta {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := int64(p.Limit())
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return PageMeta{Page: page, PerPage: int(limit), Total: total, TotalPages: pages}
}
