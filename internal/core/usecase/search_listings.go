package usecase

import (
	"context"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/filter"
	"listing-query-service/internal/core/port"
)

type SearchListingsUseCase struct {
	store port.ListingStorePort
}

func NewSearchListingsUseCase(store port.ListingStorePort) *SearchListingsUseCase {
	return &SearchListingsUseCase{store: store}
}

// Execute combines the free-text predicate with the compiled filter map
// (logical AND) and hands the result to the pagination engine. An empty
// query degenerates to plain filtered pagination.
func (uc *SearchListingsUseCase) Execute(ctx context.Context, req domain.SearchRequest) (*domain.PageResult[domain.Listing], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchListings",
		"query":    req.Query,
		"page":     req.Page.Page,
	})

	pred, err := filter.Compile(req.Filters)
	if err != nil {
		ucLogger.Warn("Filter compilation failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	pred.TextTokens = domain.TokenizeQuery(req.Query)

	result, err := PaginateListings(ctx, uc.store, pred, req.Page, Identity)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"tokens":        len(pred.TextTokens),
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	return result, nil
}
