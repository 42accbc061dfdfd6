package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

type RemoveListingsUseCase struct {
	store port.ListingStorePort
}

func NewRemoveListingsUseCase(store port.ListingStorePort) *RemoveListingsUseCase {
	return &RemoveListingsUseCase{store: store}
}

func (uc *RemoveListingsUseCase) Execute(ctx context.Context, ids ...uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RemoveListings",
		"count":    len(ids),
	})

	if len(ids) == 0 {
		return nil
	}
	if err := uc.store.Remove(ctx, ids...); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	ucLogger.Info("Listings removed", nil)
	return nil
}

func (uc *RemoveListingsUseCase) ExecuteByExternalIDs(ctx context.Context, source domain.ListingSource, externalIDs []string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RemoveListings",
		"source":   source,
		"count":    len(externalIDs),
	})

	if len(externalIDs) == 0 {
		return nil
	}
	if err := uc.store.RemoveByExternalIDs(ctx, source, externalIDs); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	ucLogger.Info("Listings removed by external id", nil)
	return nil
}
