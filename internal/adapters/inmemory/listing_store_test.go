package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedListing(t *testing.T, store *ListingStore, l domain.Listing) domain.Listing {
	t.Helper()
	id, _, err := store.Save(context.Background(), l)
	require.NoError(t, err)
	l.ID = id
	return l
}

func baseListing() domain.Listing {
	return domain.Listing{
		Source:          domain.SourceMLS,
		ExternalID:      uuid.New().String(),
		TransactionType: domain.TransactionSale,
		PropertyType:    "apartment",
		Price:           100000,
		Title:           "Listing",
		UpdatedAt:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAssignsAndKeepsID(t *testing.T) {
	store := NewListingStore()

	l := baseListing()
	id, updated, err := store.Save(context.Background(), l)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NotEqual(t, uuid.Nil, id)

	l.Price = 110000
	id2, updated, err := store.Save(context.Background(), l)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, id, id2)

	saved, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 110000.0, saved.Price)
}

func TestGetByExternalID(t *testing.T) {
	store := NewListingStore()
	l := baseListing()
	l.ExternalID = "EXT-77"
	seeded := seedListing(t, store, l)

	got, err := store.GetByExternalID(context.Background(), domain.SourceMLS, "EXT-77")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = store.GetByExternalID(context.Background(), domain.SourceManual, "EXT-77")
	assert.True(t, errors.Is(err, domain.ErrListingNotFound))
}

func TestIncrementViews(t *testing.T) {
	store := NewListingStore()
	l := seedListing(t, store, baseListing())

	require.NoError(t, store.IncrementViews(context.Background(), l.ID))
	require.NoError(t, store.IncrementViews(context.Background(), l.ID))

	got, err := store.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)

	err = store.IncrementViews(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrListingNotFound))
}

func TestQueryBoundingBoxUsesGeoIndex(t *testing.T) {
	store := NewListingStore()

	inside := baseListing()
	inside.Coordinates = &domain.Coordinates{Latitude: 40.5, Longitude: -74.0}
	inside = seedListing(t, store, inside)

	outside := baseListing()
	outside.Coordinates = &domain.Coordinates{Latitude: 50.0, Longitude: 10.0}
	seedListing(t, store, outside)

	unlocated := baseListing()
	seedListing(t, store, unlocated)

	pred := domain.Predicate{}.And(domain.Condition{
		Field: "coordinates",
		Op:    domain.OpWithinBox,
		Value: domain.BoundingBox{MinLat: 40, MinLng: -75, MaxLat: 41, MaxLng: -73},
	})

	items, total, err := store.Query(context.Background(), pred, domain.DefaultSort(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, inside.ID, items[0].ID)
}

func TestQuerySortsByPrice(t *testing.T) {
	store := NewListingStore()
	cheap := baseListing()
	cheap.Price = 50000
	cheap = seedListing(t, store, cheap)
	pricey := baseListing()
	pricey.Price = 300000
	pricey = seedListing(t, store, pricey)

	items, _, err := store.Query(context.Background(), domain.Predicate{},
		domain.Sort{Field: domain.SortByPrice}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, cheap.ID, items[0].ID)
	assert.Equal(t, pricey.ID, items[1].ID)

	items, _, err = store.Query(context.Background(), domain.Predicate{},
		domain.Sort{Field: domain.SortByPrice, Descending: true}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, pricey.ID, items[0].ID)
}

func TestRemoveByExternalIDs(t *testing.T) {
	store := NewListingStore()
	l := baseListing()
	l.ExternalID = "GONE-1"
	l = seedListing(t, store, l)

	keep := baseListing()
	keep.ExternalID = "KEEP-1"
	keep = seedListing(t, store, keep)

	require.NoError(t, store.RemoveByExternalIDs(context.Background(), domain.SourceMLS, []string{"GONE-1", "NEVER-EXISTED"}))

	_, err := store.Get(context.Background(), l.ID)
	assert.True(t, errors.Is(err, domain.ErrListingNotFound))
	_, err = store.Get(context.Background(), keep.ID)
	assert.NoError(t, err)
}

func TestExternalIDsSortedPerSource(t *testing.T) {
	store := NewListingStore()
	for _, ext := range []string{"B-2", "A-1", "C-3"} {
		l := baseListing()
		l.ExternalID = ext
		seedListing(t, store, l)
	}
	manual := baseListing()
	manual.Source = domain.SourceManual
	manual.ExternalID = "M-1"
	seedListing(t, store, manual)

	ids, err := store.ExternalIDs(context.Background(), domain.SourceMLS)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "B-2", "C-3"}, ids)
}

func TestLatestUpdate(t *testing.T) {
	store := NewListingStore()

	latest, err := store.LatestUpdate(context.Background(), domain.SourceMLS)
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := baseListing()
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, store, older)
	newer := baseListing()
	newer.UpdatedAt = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, store, newer)

	latest, err = store.LatestUpdate(context.Background(), domain.SourceMLS)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.UpdatedAt, *latest)
}

func TestUpdateCoordinatesReindexes(t *testing.T) {
	store := NewListingStore()
	l := seedListing(t, store, baseListing())

	missing, err := store.MissingCoordinates(context.Background())
	require.NoError(t, err)
	require.Len(t, missing, 1)

	coords := domain.Coordinates{Latitude: 40.5, Longitude: -74.0}
	require.NoError(t, store.UpdateCoordinates(context.Background(), l.ID, coords))

	missing, err = store.MissingCoordinates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)

	// The geo index now finds the listing through a bounding box.
	pred := domain.Predicate{}.And(domain.Condition{
		Field: "coordinates",
		Op:    domain.OpWithinBox,
		Value: domain.BoundingBox{MinLat: 40, MinLng: -75, MaxLat: 41, MaxLng: -73},
	})
	items, _, err := store.Query(context.Background(), pred, domain.DefaultSort(), 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, l.ID, items[0].ID)
}

func TestFeaturedWithRandomFill(t *testing.T) {
	store := NewListingStore()

	featured := baseListing()
	featured.Featured = true
	featured = seedListing(t, store, featured)

	disabled := baseListing()
	disabled.Featured = true
	disabled.Disabled = true
	seedListing(t, store, disabled)

	for i := 0; i < 3; i++ {
		seedListing(t, store, baseListing())
	}

	got, err := store.Featured(context.Background(), 3, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, featured.ID, got[0].ID)

	got, err = store.Featured(context.Background(), 3, true)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, featured.ID, got[0].ID)
}

func TestSetFlags(t *testing.T) {
	store := NewListingStore()
	l := seedListing(t, store, baseListing())

	require.NoError(t, store.SetFeatured(context.Background(), l.ID, true))
	require.NoError(t, store.SetDisabled(context.Background(), l.ID, true))

	got, err := store.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, got.Featured)
	assert.True(t, got.Disabled)

	assert.True(t, errors.Is(store.SetFeatured(context.Background(), uuid.New(), true), domain.ErrListingNotFound))
}

func TestQueryHonorsCancelledContext(t *testing.T) {
	store := NewListingStore()
	seedListing(t, store, baseListing())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Query(ctx, domain.Predicate{}, domain.DefaultSort(), 0, 10)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMatchesTextOrSemantics(t *testing.T) {
	l := baseListing()
	l.Title = "Sunny loft"
	l.City = "Springfield"

	assert.True(t, Matches(l, domain.Predicate{TextTokens: []string{"sunny"}}))
	assert.True(t, Matches(l, domain.Predicate{TextTokens: []string{"nowhere", "springfield"}}))
	assert.False(t, Matches(l, domain.Predicate{TextTokens: []string{"castle"}}))
	assert.True(t, Matches(l, domain.Predicate{}))
}
