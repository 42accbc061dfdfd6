package postgres

import (
	"context"
	"fmt"
	"time"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
)

// geohashPrecision of the indexed cell column used for coarse geo lookups.
const geohashPrecision = 5

func geohashOf(c *domain.Coordinates) *string {
	if c == nil {
		return nil
	}
	h := geohash.EncodeWithPrecision(c.Latitude, c.Longitude, geohashPrecision)
	return &h
}

// Save upserts a listing. With an internal id the row is addressed
// directly; otherwise the (source, external_id) uniqueness resolves the
// conflict with last-writer-wins, keeping the original internal id and the
// monotonic view counter.
func (a *ListingStoreAdapter) Save(ctx context.Context, listing domain.Listing) (uuid.UUID, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "ListingStoreAdapter",
		"method":      "Save",
		"source":      listing.Source,
		"external_id": listing.ExternalID,
	})

	if listing.UpdatedAt.IsZero() {
		listing.UpdatedAt = time.Now().UTC()
	}

	var lat, lng *float64
	if listing.Coordinates != nil {
		lat, lng = &listing.Coordinates.Latitude, &listing.Coordinates.Longitude
	}

	conflictTarget := "(id)"
	id := listing.ID
	if id == uuid.Nil {
		id = uuid.New()
		conflictTarget = "(source, external_id) WHERE external_id <> ''"
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (id, source, external_id, transaction_type, property_type, price,
			title, description, address, city, latitude, longitude, geohash,
			disabled, featured, views, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT %s DO UPDATE SET
			transaction_type = EXCLUDED.transaction_type,
			property_type    = EXCLUDED.property_type,
			price            = EXCLUDED.price,
			title            = EXCLUDED.title,
			description      = EXCLUDED.description,
			address          = EXCLUDED.address,
			city             = EXCLUDED.city,
			latitude         = EXCLUDED.latitude,
			longitude        = EXCLUDED.longitude,
			geohash          = EXCLUDED.geohash,
			disabled         = EXCLUDED.disabled,
			featured         = EXCLUDED.featured,
			updated_at       = EXCLUDED.updated_at
		RETURNING id, (xmax <> 0)`, conflictTarget)

	var savedID uuid.UUID
	var updated bool
	err := a.pool.QueryRow(ctx, query,
		id, listing.Source, listing.ExternalID, listing.TransactionType, listing.PropertyType, listing.Price,
		listing.Title, listing.Description, listing.Address, listing.City, lat, lng, geohashOf(listing.Coordinates),
		listing.Disabled, listing.Featured, listing.Views, listing.UpdatedAt,
	).Scan(&savedID, &updated)
	if err != nil {
		repoLogger.Error("Failed to save listing", err, nil)
		return uuid.Nil, false, storeErr("failed to save listing", err)
	}

	repoLogger.Debug("Listing saved", port.Fields{"listing_id": savedID, "updated": updated})
	return savedID, updated, nil
}

func (a *ListingStoreAdapter) Remove(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := a.pool.Exec(ctx, "DELETE FROM listings WHERE id = ANY($1)", ids); err != nil {
		return storeErr("failed to remove listings", err)
	}
	return nil
}

func (a *ListingStoreAdapter) RemoveByExternalIDs(ctx context.Context, source domain.ListingSource, externalIDs []string) error {
	if len(externalIDs) == 0 {
		return nil
	}
	_, err := a.pool.Exec(ctx,
		"DELETE FROM listings WHERE source = $1 AND external_id = ANY($2)", source, externalIDs)
	if err != nil {
		return storeErr("failed to remove listings by external id", err)
	}
	return nil
}

func (a *ListingStoreAdapter) ExternalIDs(ctx context.Context, source domain.ListingSource) ([]string, error) {
	rows, err := a.pool.Query(ctx,
		"SELECT external_id FROM listings WHERE source = $1 AND external_id <> '' ORDER BY external_id", source)
	if err != nil {
		return nil, storeErr("failed to query external ids", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("failed to scan external id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error during external ids iteration", err)
	}
	return ids, nil
}

func (a *ListingStoreAdapter) LatestUpdate(ctx context.Context, source domain.ListingSource) (*time.Time, error) {
	var latest *time.Time
	err := a.pool.QueryRow(ctx,
		"SELECT MAX(updated_at) FROM listings WHERE source = $1", source).Scan(&latest)
	if err != nil {
		return nil, storeErr("failed to query latest update", err)
	}
	return latest, nil
}

func (a *ListingStoreAdapter) MissingCoordinates(ctx context.Context) ([]domain.Listing, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM listings l WHERE l.latitude IS NULL OR l.longitude IS NULL ORDER BY l.updated_at DESC, l.id ASC",
		listingColumns,
	)
	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, storeErr("failed to query listings without coordinates", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeErr("failed to scan listing", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error during listings iteration", err)
	}
	return listings, nil
}

func (a *ListingStoreAdapter) UpdateCoordinates(ctx context.Context, id uuid.UUID, coords domain.Coordinates) error {
	tag, err := a.pool.Exec(ctx,
		"UPDATE listings SET latitude = $2, longitude = $3, geohash = $4 WHERE id = $1",
		id, coords.Latitude, coords.Longitude, geohashOf(&coords))
	if err != nil {
		return storeErr("failed to update coordinates", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", id, domain.ErrListingNotFound)
	}
	return nil
}

func (a *ListingStoreAdapter) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return a.setFlag(ctx, "featured", id, featured)
}

func (a *ListingStoreAdapter) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	return a.setFlag(ctx, "disabled", id, disabled)
}

func (a *ListingStoreAdapter) setFlag(ctx context.Context, column string, id uuid.UUID, value bool) error {
	query := fmt.Sprintf("UPDATE listings SET %s = $2 WHERE id = $1", column)
	tag, err := a.pool.Exec(ctx, query, id, value)
	if err != nil {
		return storeErr("failed to update "+column+" flag", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", id, domain.ErrListingNotFound)
	}
	return nil
}

// Featured returns featured listings, newest first, optionally topped up
// with a random portion of enabled listings to reach the limit.
func (a *ListingStoreAdapter) Featured(ctx context.Context, limit int, fillRandom bool) ([]domain.Listing, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM listings l WHERE l.featured AND NOT l.disabled ORDER BY l.updated_at DESC, l.id ASC LIMIT $1",
		listingColumns,
	)
	listings, err := a.queryListings(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if fillRandom && len(listings) < limit {
		fillQuery := fmt.Sprintf(
			"SELECT %s FROM listings l WHERE NOT l.featured AND NOT l.disabled ORDER BY random() LIMIT $1",
			listingColumns,
		)
		fill, err := a.queryListings(ctx, fillQuery, limit-len(listings))
		if err != nil {
			return nil, err
		}
		listings = append(listings, fill...)
	}
	return listings, nil
}

func (a *ListingStoreAdapter) queryListings(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to query listings", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeErr("failed to scan listing", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error during listings iteration", err)
	}
	return listings, nil
}
