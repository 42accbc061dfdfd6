package domain

import "fmt"

// SortField is a sortable listing attribute.
type SortField string

const (
	SortByUpdatedAt SortField = "updatedAt"
	SortByPrice     SortField = "price"
	SortByViews     SortField = "views"
)

// Sort describes the primary ordering of a query. Stores always apply the
// internal id (ascending) as a secondary key, so that page boundaries stay
// stable when unrelated listings are inserted or removed between calls.
type Sort struct {
	Field      SortField
	Descending bool
}

// DefaultSort orders listings by recency, newest first.
func DefaultSort() Sort {
	return Sort{Field: SortByUpdatedAt, Descending: true}
}

// MaxPageSize bounds how many items a single page may carry.
const MaxPageSize = 200

// PageRequest selects one page of an ordered result set.
// The page index is zero-based.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     Sort
}

// Validate fails fast with ErrInvalidArgument before any store call.
func (r PageRequest) Validate() error {
	if r.Page < 0 {
		return fmt.Errorf("%w: page index %d must not be negative", ErrInvalidArgument, r.Page)
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d must be between 1 and %d", ErrInvalidArgument, r.PageSize, MaxPageSize)
	}
	return nil
}

// Offset is the number of rows to skip for this page.
func (r PageRequest) Offset() int {
	return r.Page * r.PageSize
}

// PageResult is one page of a query, projected to T.
//
// TotalCount and Items are computed from the same logical snapshot where the
// store supports it; stores without snapshot reads are best-effort and the
// total may be stale relative to the items by the time the caller sees them.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}
