package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

type GetListingUseCase struct {
	store port.ListingStorePort
}

func NewGetListingUseCase(store port.ListingStorePort) *GetListingUseCase {
	return &GetListingUseCase{store: store}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListing",
		"listing_id": id,
	})

	listing, err := uc.store.Get(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	return listing, nil
}
