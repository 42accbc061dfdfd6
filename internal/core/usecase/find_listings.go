package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/filter"
	"listing-query-service/internal/core/port"
)

type FindListingsUseCase struct {
	store port.ListingStorePort
}

func NewFindListingsUseCase(store port.ListingStorePort) *FindListingsUseCase {
	return &FindListingsUseCase{store: store}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, filters map[string]string, page domain.PageRequest) (*domain.PageResult[domain.Listing], error) {
	return findListings(ctx, uc.store, filters, page, Identity)
}

func (uc *FindListingsUseCase) ExecuteCards(ctx context.Context, filters map[string]string, page domain.PageRequest) (*domain.PageResult[domain.ListingCard], error) {
	return findListings(ctx, uc.store, filters, page, domain.CardOf)
}

func findListings[T any](
	ctx context.Context,
	store port.ListingStorePort,
	filters map[string]string,
	page domain.PageRequest,
	project func(domain.Listing) T,
) (*domain.PageResult[T], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "FindListings",
		"filters":   filters,
		"page":      page.Page,
		"page_size": page.PageSize,
	})

	pred, err := filter.Compile(filters)
	if err != nil {
		ucLogger.Warn("Filter compilation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	result, err := PaginateListings(ctx, store, pred, page, project)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	return result, nil
}
