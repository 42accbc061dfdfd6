package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/port"

	"github.com/google/uuid"
)

type IncrementViewsUseCase struct {
	store port.ListingStorePort
}

func NewIncrementViewsUseCase(store port.ListingStorePort) *IncrementViewsUseCase {
	return &IncrementViewsUseCase{store: store}
}

// Execute bumps the view counter. The increment is atomic at the store
// level, so concurrent bumps for the same listing never lose updates.
// Callers treat it as fire-and-forget: there is no read-your-write
// guarantee for the counter.
func (uc *IncrementViewsUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "IncrementViews",
		"listing_id": id,
	})

	if err := uc.store.IncrementViews(ctx, id); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}
	return nil
}
