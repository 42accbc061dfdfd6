package port

import (
	"context"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingStorePort is the contract a listing store must satisfy for the
// query engine. The engine pushes predicate, sort and paging down to the
// store; it never materializes the full collection itself.
//
// Implementations that cannot give a consistent snapshot for Query must
// document that TotalCount may be stale relative to the returned items.
type ListingStorePort interface {
	// Query returns one window of the listings matching the predicate,
	// ordered by sort with the internal id as tie-break, plus the total
	// match count.
	Query(ctx context.Context, pred domain.Predicate, sort domain.Sort, skip, limit int) ([]domain.Listing, int, error)

	// Get returns the listing or domain.ErrListingNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// GetByExternalID resolves a (source, externalId) pair or returns
	// domain.ErrListingNotFound.
	GetByExternalID(ctx context.Context, source domain.ListingSource, externalID string) (*domain.Listing, error)

	// IncrementViews bumps the view counter atomically at the store level.
	// Returns domain.ErrListingNotFound for unknown ids.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// SuggestLabels returns raw typeahead candidates whose label matches
	// the lower-cased query by prefix or substring. Ranking and
	// deduplication happen in the suggestion use case.
	SuggestLabels(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)

	// Save inserts the listing or updates the existing one with the same
	// id, or the same (source, externalId) when the id is unset. Returns
	// the internal id and whether an existing listing was updated.
	Save(ctx context.Context, listing domain.Listing) (uuid.UUID, bool, error)

	// Remove deletes listings by internal id. Unknown ids are ignored.
	Remove(ctx context.Context, ids ...uuid.UUID) error

	// RemoveByExternalIDs deletes listings of one source by external id.
	RemoveByExternalIDs(ctx context.Context, source domain.ListingSource, externalIDs []string) error

	// ExternalIDs lists the external ids of all listings of a source.
	ExternalIDs(ctx context.Context, source domain.ListingSource) ([]string, error)

	// LatestUpdate returns the most recent UpdatedAt among the listings of
	// a source, or nil when the source has none.
	LatestUpdate(ctx context.Context, source domain.ListingSource) (*time.Time, error)

	// MissingCoordinates returns listings without coordinates, for
	// geocoding backfill.
	MissingCoordinates(ctx context.Context) ([]domain.Listing, error)

	// UpdateCoordinates sets the coordinates of one listing.
	UpdateCoordinates(ctx context.Context, id uuid.UUID, coords domain.Coordinates) error

	// SetFeatured / SetDisabled flip the moderation flags.
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error

	// Featured returns up to limit featured, enabled listings. With
	// fillRandom set, random enabled listings top the result up to limit.
	Featured(ctx context.Context, limit int, fillRandom bool) ([]domain.Listing, error)
}
