package usecase

import (
	"context"
	"fmt"

	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
)

// PaginateListings runs one pushdown query and projects every returned row
// through the caller-supplied projector. The projector decides the output
// shape; the engine stays agnostic to it, so any reduced view can be
// declared at the call site without engine-side type switches.
//
// Validation fails fast before the store is touched. A page index past the
// end of the result set yields empty items with the correct total, not an
// error.
func PaginateListings[T any](
	ctx context.Context,
	store port.ListingStorePort,
	pred domain.Predicate,
	page domain.PageRequest,
	project func(domain.Listing) T,
) (*domain.PageResult[T], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: nil projector", domain.ErrInvalidArgument)
	}

	sort := page.Sort
	if sort.Field == "" {
		sort = domain.DefaultSort()
	}

	items, total, err := store.Query(ctx, pred, sort, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}

	projected := make([]T, len(items))
	for i, listing := range items {
		projected[i] = project(listing)
	}

	return &domain.PageResult[T]{
		Items:      projected,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

// Identity is the full-entity projector.
func Identity(l domain.Listing) domain.Listing { return l }
