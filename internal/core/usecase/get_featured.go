package usecase

import (
	"context"
	"fmt"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
)

type GetFeaturedUseCase struct {
	store port.ListingStorePort
}

func NewGetFeaturedUseCase(store port.ListingStorePort) *GetFeaturedUseCase {
	return &GetFeaturedUseCase{store: store}
}

// Execute returns up to limit featured listings. With fillRandom set, a
// random selection of enabled listings tops the result up when fewer than
// limit are featured.
func (uc *GetFeaturedUseCase) Execute(ctx context.Context, limit int, fillRandom bool) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetFeatured",
		"limit":       limit,
		"fill_random": fillRandom,
	})

	if limit <= 0 {
		return nil, fmt.Errorf("%w: featured limit %d must be positive", domain.ErrInvalidArgument, limit)
	}

	listings, err := uc.store.Featured(ctx, limit, fillRandom)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"returned": len(listings)})
	return listings, nil
}
