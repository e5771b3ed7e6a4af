package utils

import "math"

const (
	// DefaultPageSize is used when the caller omits or mangles the limit
	DefaultPageSize = 20
	// MaxPageSize bounds how many ledger rows a single page may return
	MaxPageSize = 100
)

// PaginationParams is a sanitized page request
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationMeta describes one page of a listing response
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams clamps raw query values: page floors at 1, limit falls
// back to DefaultPageSize and is capped at MaxPageSize.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculateOffset returns the SQL offset for the page
func (p PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit < 1 {
		limit = DefaultPageSize
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}
}
