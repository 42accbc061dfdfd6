package usecase

import (
	"context"
	"testing"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchListingsOrAcrossTokensAndFields(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withTitle("Sunny loft"), withCity("Springfield")),
		mkListing(withTitle("Dark basement"), withDescription("very sunny inside")),
		mkListing(withTitle("Cottage"), withAddress("Riverside Drive 5")),
		mkListing(withTitle("Unrelated"), withCity("Shelbyville")),
	)
	uc := NewSearchListingsUseCase(store)

	// One token hitting one field is enough.
	result, err := uc.Execute(context.Background(), domain.SearchRequest{
		Query: "sunny riverside",
		Page:  domain.PageRequest{Page: 0, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
}

func TestSearchListingsEmptyQueryDegeneratesToFilters(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withCity("Springfield")),
		mkListing(withCity("Shelbyville")),
	)
	uc := NewSearchListingsUseCase(store)

	result, err := uc.Execute(context.Background(), domain.SearchRequest{
		Query:   "   ",
		Filters: map[string]string{"city": "springfield"},
		Page:    domain.PageRequest{Page: 0, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestSearchListingsCombinesQueryWithFilters(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withTitle("Sunny loft"), withPrice(90000)),
		mkListing(withTitle("Sunny villa"), withPrice(500000)),
	)
	uc := NewSearchListingsUseCase(store)

	result, err := uc.Execute(context.Background(), domain.SearchRequest{
		Query:   "sunny",
		Filters: map[string]string{"price": "-100000"},
		Page:    domain.PageRequest{Page: 0, PageSize: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "Sunny loft", result.Items[0].Title)
}

func TestSearchListingsPropagatesFilterErrors(t *testing.T) {
	uc := NewSearchListingsUseCase(newStoreWith(t))

	_, err := uc.Execute(context.Background(), domain.SearchRequest{
		Query:   "loft",
		Filters: map[string]string{"price": "200-100"},
		Page:    domain.PageRequest{Page: 0, PageSize: 10},
	})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidFilter(err))
}
