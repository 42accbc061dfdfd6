package usecase

import (
	"context"
	"fmt"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

type SaveListingUseCase struct {
	store port.ListingStorePort
}

func NewSaveListingUseCase(store port.ListingStorePort) *SaveListingUseCase {
	return &SaveListingUseCase{store: store}
}

// Execute upserts a listing: by internal id when set, otherwise by
// (source, externalId). Raced writers for the same external id resolve to
// last-writer-wins at the store; the original internal id is preserved.
func (uc *SaveListingUseCase) Execute(ctx context.Context, listing domain.Listing) (uuid.UUID, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveListing",
		"source":      listing.Source,
		"external_id": listing.ExternalID,
	})

	if listing.Price < 0 {
		return uuid.Nil, false, fmt.Errorf("%w: price %v must not be negative", domain.ErrInvalidArgument, listing.Price)
	}
	if listing.TransactionType != domain.TransactionSale && listing.TransactionType != domain.TransactionRent {
		return uuid.Nil, false, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidArgument, listing.TransactionType)
	}
	if listing.ID == uuid.Nil && (listing.Source == "" || listing.ExternalID == "") {
		return uuid.Nil, false, fmt.Errorf("%w: a listing needs an id or a (source, externalId) pair", domain.ErrInvalidArgument)
	}

	id, updated, err := uc.store.Save(ctx, listing)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return uuid.Nil, false, err
	}

	ucLogger.Info("Listing saved", port.Fields{"listing_id": id, "updated": updated})
	return id, updated, nil
}
