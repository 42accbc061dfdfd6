package usecase

import (
	"context"
	"testing"
	"time"

	"listing-query-service/internal/adapters/inmemory"
	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newStoreWith(t *testing.T, listings ...domain.Listing) *inmemory.ListingStore {
	t.Helper()
	store := inmemory.NewListingStore()
	for _, l := range listings {
		_, _, err := store.Save(context.Background(), l)
		require.NoError(t, err)
	}
	return store
}

type listingOpt func(*domain.Listing)

func withPrice(price float64) listingOpt {
	return func(l *domain.Listing) { l.Price = price }
}

func withCoords(lat, lng float64) listingOpt {
	return func(l *domain.Listing) { l.Coordinates = &domain.Coordinates{Latitude: lat, Longitude: lng} }
}

func withUpdatedAt(ts time.Time) listingOpt {
	return func(l *domain.Listing) { l.UpdatedAt = ts }
}

func withTransaction(tt domain.TransactionType) listingOpt {
	return func(l *domain.Listing) { l.TransactionType = tt }
}

func withDisabled() listingOpt {
	return func(l *domain.Listing) { l.Disabled = true }
}

func withCity(city string) listingOpt {
	return func(l *domain.Listing) { l.City = city }
}

func withAddress(address string) listingOpt {
	return func(l *domain.Listing) { l.Address = address }
}

func withTitle(title string) listingOpt {
	return func(l *domain.Listing) { l.Title = title }
}

func withDescription(desc string) listingOpt {
	return func(l *domain.Listing) { l.Description = desc }
}

func withExternalID(id string) listingOpt {
	return func(l *domain.Listing) { l.ExternalID = id }
}

func mkListing(opts ...listingOpt) domain.Listing {
	l := domain.Listing{
		ID:              uuid.New(),
		Source:          domain.SourceMLS,
		TransactionType: domain.TransactionSale,
		PropertyType:    "apartment",
		Price:           100000,
		Title:           "Listing",
		UpdatedAt:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
