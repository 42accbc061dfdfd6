package usecases_port

import (
	"context"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
)

// GetFeedStateUseCase exposes the store state external feeders need to
// reconcile their catalogs (which listings exist, how fresh they are,
// which still lack coordinates).
type GetFeedStateUseCase interface {
	ExternalIDs(ctx context.Context, source domain.ListingSource) ([]string, error)
	LatestUpdate(ctx context.Context, source domain.ListingSource) (*time.Time, error)
	MissingCoordinates(ctx context.Context) ([]domain.Listing, error)
}

type UpdateCoordinatesUseCase interface {
	Execute(ctx context.Context, id uuid.UUID, coords domain.Coordinates) error
}
