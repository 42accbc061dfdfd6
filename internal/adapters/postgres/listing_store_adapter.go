// Package postgres implements the listing store port on PostgreSQL with
// full pushdown: predicates, ordering and paging all run in the database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `l.id, l.source, l.external_id, l.transaction_type, l.property_type, l.price,
	l.title, l.description, l.address, l.city, l.latitude, l.longitude,
	l.disabled, l.featured, l.views, l.updated_at`

type ListingStoreAdapter struct {
	pool *pgxpool.Pool
}

func NewListingStoreAdapter(pool *pgxpool.Pool) (*ListingStoreAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool cannot be nil")
	}
	return &ListingStoreAdapter{pool: pool}, nil
}

// storeErr keeps cancellation distinguishable from store failures: context
// errors pass through for errors.Is, everything else is a transient store
// problem the caller may retry.
func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var lat, lng *float64
	err := row.Scan(
		&l.ID, &l.Source, &l.ExternalID, &l.TransactionType, &l.PropertyType, &l.Price,
		&l.Title, &l.Description, &l.Address, &l.City, &lat, &lng,
		&l.Disabled, &l.Featured, &l.Views, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	if lat != nil && lng != nil {
		l.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return l, nil
}

// Query runs the count and the page select inside one transaction, so both
// come from the same snapshot.
func (a *ListingStoreAdapter) Query(ctx context.Context, pred domain.Predicate, sortBy domain.Sort, skip, limit int) ([]domain.Listing, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStoreAdapter",
		"method":    "Query",
		"skip":      skip,
		"limit":     limit,
	})

	whereClause, args, err := applyPredicate(pred)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, 0, storeErr("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count listings", err, port.Fields{"query": countQuery})
		return nil, 0, storeErr("failed to count listings", err)
	}

	if totalCount == 0 || skip >= int(totalCount) {
		return []domain.Listing{}, int(totalCount), nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM listings l %s %s LIMIT $%d OFFSET $%d",
		listingColumns, whereClause, orderByClause(sortBy), len(args)+1, len(args)+2,
	)
	rows, err := tx.Query(ctx, dataQuery, append(args, limit, skip)...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"query": dataQuery})
		return nil, 0, storeErr("failed to query listings", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0, limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, storeErr("failed to scan listing", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("error during listings iteration", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, storeErr("failed to commit transaction", err)
	}

	repoLogger.Debug("Query finished", port.Fields{"total_count": totalCount, "page_items": len(listings)})
	return listings, int(totalCount), nil
}

func (a *ListingStoreAdapter) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.id = $1", listingColumns)
	l, err := scanListing(a.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", id, domain.ErrListingNotFound)
		}
		return nil, storeErr("failed to get listing", err)
	}
	return &l, nil
}

func (a *ListingStoreAdapter) GetByExternalID(ctx context.Context, source domain.ListingSource, externalID string) (*domain.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.source = $1 AND l.external_id = $2", listingColumns)
	l, err := scanListing(a.pool.QueryRow(ctx, query, source, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("listing %s/%s: %w", source, externalID, domain.ErrListingNotFound)
		}
		return nil, storeErr("failed to get listing by external id", err)
	}
	return &l, nil
}

// IncrementViews bumps the counter in a single UPDATE, so concurrent bumps
// for the same listing never lose updates.
func (a *ListingStoreAdapter) IncrementViews(ctx context.Context, id uuid.UUID) error {
	tag, err := a.pool.Exec(ctx, "UPDATE listings SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		return storeErr("failed to increment views", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", id, domain.ErrListingNotFound)
	}
	return nil
}

// SuggestLabels pulls typeahead candidates from the city, address and
// external id columns. Prefix matches use the column's text_pattern_ops
// index; substring matches are a secondary ILIKE pass in the same query.
func (a *ListingStoreAdapter) SuggestLabels(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	prefix := strings.ToLower(query)

	sql := `
		SELECT label, category, id FROM (
			SELECT l.city AS label, 'city' AS category, l.id AS id FROM listings l
				WHERE NOT l.disabled AND l.city <> '' AND l.city ILIKE '%' || $1 || '%'
			UNION ALL
			SELECT l.address, 'address', l.id FROM listings l
				WHERE NOT l.disabled AND l.address <> '' AND l.address ILIKE '%' || $1 || '%'
			UNION ALL
			SELECT l.external_id, 'mls', l.id FROM listings l
				WHERE NOT l.disabled AND l.external_id <> '' AND l.external_id ILIKE '%' || $1 || '%'
		) candidates
		ORDER BY (LOWER(label) LIKE $1 || '%') DESC, LENGTH(label) ASC, LOWER(label) ASC
		LIMIT $2`

	rows, err := a.pool.Query(ctx, sql, prefix, limit)
	if err != nil {
		return nil, storeErr("failed to query suggestions", err)
	}
	defer rows.Close()

	suggestions := make([]domain.Suggestion, 0, limit)
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.Label, &s.Category, &s.ListingID); err != nil {
			return nil, storeErr("failed to scan suggestion", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error during suggestions iteration", err)
	}
	return suggestions, nil
}
