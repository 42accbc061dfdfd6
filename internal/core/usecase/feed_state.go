package usecase

import (
	"context"
	"fmt"
	"time"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

// GetFeedStateUseCase answers the reconciliation questions external feeders
// ask: which external ids exist for a source, how fresh the newest listing
// is, and which listings still lack coordinates.
type GetFeedStateUseCase struct {
	store port.ListingStorePort
}

func NewGetFeedStateUseCase(store port.ListingStorePort) *GetFeedStateUseCase {
	return &GetFeedStateUseCase{store: store}
}

func (uc *GetFeedStateUseCase) ExternalIDs(ctx context.Context, source domain.ListingSource) ([]string, error) {
	return uc.store.ExternalIDs(ctx, source)
}

func (uc *GetFeedStateUseCase) LatestUpdate(ctx context.Context, source domain.ListingSource) (*time.Time, error) {
	return uc.store.LatestUpdate(ctx, source)
}

func (uc *GetFeedStateUseCase) MissingCoordinates(ctx context.Context) ([]domain.Listing, error) {
	return uc.store.MissingCoordinates(ctx)
}

type UpdateCoordinatesUseCase struct {
	store port.ListingStorePort
}

func NewUpdateCoordinatesUseCase(store port.ListingStorePort) *UpdateCoordinatesUseCase {
	return &UpdateCoordinatesUseCase{store: store}
}

func (uc *UpdateCoordinatesUseCase) Execute(ctx context.Context, id uuid.UUID, coords domain.Coordinates) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "UpdateCoordinates",
		"listing_id": id,
	})

	if coords.Latitude < -90 || coords.Latitude > 90 || coords.Longitude < -180 || coords.Longitude > 180 {
		return fmt.Errorf("%w: coordinates (%v, %v) out of range", domain.ErrInvalidArgument, coords.Latitude, coords.Longitude)
	}

	if err := uc.store.UpdateCoordinates(ctx, id, coords); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	ucLogger.Info("Coordinates updated", nil)
	return nil
}
