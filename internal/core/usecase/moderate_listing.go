package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

type SetFeaturedUseCase struct {
	store port.ListingStorePort
}

func NewSetFeaturedUseCase(store port.ListingStorePort) *SetFeaturedUseCase {
	return &SetFeaturedUseCase{store: store}
}

func (uc *SetFeaturedUseCase) Execute(ctx context.Context, id uuid.UUID, featured bool) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SetFeatured",
		"listing_id": id,
		"featured":   featured,
	})

	if err := uc.store.SetFeatured(ctx, id, featured); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	ucLogger.Info("Featured flag updated", nil)
	return nil
}

type SetDisabledUseCase struct {
	store port.ListingStorePort
}

func NewSetDisabledUseCase(store port.ListingStorePort) *SetDisabledUseCase {
	return &SetDisabledUseCase{store: store}
}

func (uc *SetDisabledUseCase) Execute(ctx context.Context, id uuid.UUID, disabled bool) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SetDisabled",
		"listing_id": id,
		"disabled":   disabled,
	})

	if err := uc.store.SetDisabled(ctx, id, disabled); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	ucLogger.Info("Disabled flag updated", nil)
	return nil
}
