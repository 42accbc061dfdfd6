package usecase

import (
	"context"
	"errors"
	"testing"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveListingInsertAndUpdate(t *testing.T) {
	store := newStoreWith(t)
	uc := NewSaveListingUseCase(store)

	first := mkListing(withExternalID("MLS-1"), withPrice(100000))
	first.ID = uuid.Nil

	id, updated, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NotEqual(t, uuid.Nil, id)

	// A second save for the same (source, externalId) updates in place
	// and keeps the internal id.
	second := mkListing(withExternalID("MLS-1"), withPrice(120000))
	second.ID = uuid.Nil

	id2, updated, err := uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, id, id2)

	saved, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 120000.0, saved.Price)
}

func TestSaveListingPreservesViewCounter(t *testing.T) {
	store := newStoreWith(t)
	uc := NewSaveListingUseCase(store)

	l := mkListing(withExternalID("MLS-2"))
	l.ID = uuid.Nil
	id, _, err := uc.Execute(context.Background(), l)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementViews(context.Background(), id))
	}

	// A feed refresh must not reset the counter.
	refresh := mkListing(withExternalID("MLS-2"), withPrice(99000))
	refresh.ID = uuid.Nil
	_, _, err = uc.Execute(context.Background(), refresh)
	require.NoError(t, err)

	saved, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.Views)
}

func TestSaveListingValidation(t *testing.T) {
	uc := NewSaveListingUseCase(newStoreWith(t))

	negativePrice := mkListing(withPrice(-5))
	badTransaction := mkListing()
	badTransaction.TransactionType = "auction"
	noIdentity := mkListing()
	noIdentity.ID = uuid.Nil
	noIdentity.ExternalID = ""

	for name, listing := range map[string]domain.Listing{
		"negative price":       negativePrice,
		"bad transaction type": badTransaction,
		"no identity":          noIdentity,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := uc.Execute(context.Background(), listing)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		})
	}
}
