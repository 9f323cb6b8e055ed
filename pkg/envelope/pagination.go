package envelope

import "math"

// PaginationParams describes where a page sits in a result set. Envelopes
// carry it unchanged; consistency between its fields is the producer's concern.
type PaginationParams struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationParams derives TotalPages from totalCount and pageSize.
func NewPaginationParams(page, pageSize int, totalCount int64) PaginationParams {
	p := PaginationParams{Page: page, PageSize: pageSize, TotalCount: totalCount}
	if pageSize > 0 {
		p.TotalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}

	return p
}

// Offset is the zero-based index of the first item on the page. It saturates
// at math.MaxInt instead of overflowing.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}

	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}

	return (p.Page - 1) * p.PageSize
}
