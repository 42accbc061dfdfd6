package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateListingsPageMath(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	listings := make([]domain.Listing, 0, 7)
	for i := 0; i < 7; i++ {
		listings = append(listings, mkListing(
			withTitle(fmt.Sprintf("Listing %d", i)),
			withUpdatedAt(base.Add(time.Duration(i)*time.Hour)),
		))
	}
	store := newStoreWith(t, listings...)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantItems int
	}{
		{"full first page", 0, 3, 3},
		{"full middle page", 1, 3, 3},
		{"partial last page", 2, 3, 1},
		{"page past the end", 5, 3, 0},
		{"page size beyond total", 0, 50, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := PaginateListings(context.Background(), store, domain.Predicate{},
				domain.PageRequest{Page: tt.page, PageSize: tt.pageSize}, Identity)
			require.NoError(t, err)

			assert.Equal(t, 7, result.TotalCount)
			assert.Len(t, result.Items, tt.wantItems)
			assert.Equal(t, tt.page, result.Page)
			assert.Equal(t, tt.pageSize, result.PageSize)
		})
	}
}

func TestPaginateListingsStableOrder(t *testing.T) {
	// All listings share one timestamp; ordering falls back to the id
	// tie-break, so consecutive pages never overlap or skip.
	ts := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	listings := make([]domain.Listing, 0, 9)
	for i := 0; i < 9; i++ {
		listings = append(listings, mkListing(withUpdatedAt(ts)))
	}
	store := newStoreWith(t, listings...)

	seen := make(map[string]int)
	for page := 0; page < 3; page++ {
		result, err := PaginateListings(context.Background(), store, domain.Predicate{},
			domain.PageRequest{Page: page, PageSize: 3}, Identity)
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		for _, l := range result.Items {
			seen[l.ID.String()]++
		}
	}

	assert.Len(t, seen, 9)
	for id, count := range seen {
		assert.Equal(t, 1, count, "listing %s appeared %d times", id, count)
	}
}

func TestPaginateListingsRejectsBadRequests(t *testing.T) {
	store := newStoreWith(t, mkListing())

	_, err := PaginateListings(context.Background(), store, domain.Predicate{},
		domain.PageRequest{Page: -1, PageSize: 10}, Identity)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = PaginateListings(context.Background(), store, domain.Predicate{},
		domain.PageRequest{Page: 0, PageSize: 0}, Identity)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = PaginateListings[domain.Listing](context.Background(), store, domain.Predicate{},
		domain.PageRequest{Page: 0, PageSize: 10}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestPaginateListingsProjection(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withTitle("Riverside loft"), withCity("Springfield")),
	)

	result, err := PaginateListings(context.Background(), store, domain.Predicate{},
		domain.PageRequest{Page: 0, PageSize: 10}, domain.CardOf)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	card := result.Items[0]
	assert.Equal(t, "Riverside loft", card.Title)
	assert.Equal(t, "Springfield", card.City)
}

func TestFindListingsExecuteCards(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withCity("Springfield")),
		mkListing(withCity("Shelbyville")),
	)
	uc := NewFindListingsUseCase(store)

	result, err := uc.ExecuteCards(context.Background(),
		map[string]string{"city": "springfield"},
		domain.PageRequest{Page: 0, PageSize: 10})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Springfield", result.Items[0].City)
	assert.Equal(t, 1, result.TotalCount)
}

func TestFindListingsRejectsUnknownFilter(t *testing.T) {
	uc := NewFindListingsUseCase(newStoreWith(t))

	_, err := uc.Execute(context.Background(),
		map[string]string{"bedrooms": "3"},
		domain.PageRequest{Page: 0, PageSize: 10})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidFilter(err))
}
