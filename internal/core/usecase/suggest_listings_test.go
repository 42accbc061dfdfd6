package usecase

import (
	"context"
	"errors"
	"testing"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestListingsRanking(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withCity("Mayfield")),
		mkListing(withAddress("May St")),
		mkListing(withAddress("North Maybury Road")),
	)
	uc := NewSuggestListingsUseCase(store)

	got, err := uc.Execute(context.Background(), "May", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Prefix matches first, shorter before longer, substring matches last.
	assert.Equal(t, "May St", got[0].Label)
	assert.Equal(t, "Mayfield", got[1].Label)
	assert.Equal(t, "North Maybury Road", got[2].Label)
}

func TestSuggestListingsDeduplicates(t *testing.T) {
	// City and address carry the same label for one listing; only one
	// suggestion survives.
	store := newStoreWith(t,
		mkListing(withCity("Mayfair"), withAddress("Mayfair")),
	)
	uc := NewSuggestListingsUseCase(store)

	got, err := uc.Execute(context.Background(), "may", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSuggestListingsHonorsLimit(t *testing.T) {
	listings := make([]domain.Listing, 0, 8)
	for _, city := range []string{"Maya", "Mayb", "Mayc", "Mayd", "Maye", "Mayf", "Mayg", "Mayh"} {
		listings = append(listings, mkListing(withCity(city)))
	}
	store := newStoreWith(t, listings...)
	uc := NewSuggestListingsUseCase(store)

	got, err := uc.Execute(context.Background(), "may", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSuggestListingsMatchesExternalID(t *testing.T) {
	store := newStoreWith(t,
		mkListing(withExternalID("MAY-123")),
	)
	uc := NewSuggestListingsUseCase(store)

	got, err := uc.Execute(context.Background(), "may", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SuggestionMLS, got[0].Category)
	assert.Equal(t, "MAY-123", got[0].Label)
}

func TestSuggestListingsEmptyQuery(t *testing.T) {
	uc := NewSuggestListingsUseCase(newStoreWith(t, mkListing(withCity("Mayfield"))))

	got, err := uc.Execute(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestListingsRejectsNonPositiveLimit(t *testing.T) {
	uc := NewSuggestListingsUseCase(newStoreWith(t))

	_, err := uc.Execute(context.Background(), "may", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
