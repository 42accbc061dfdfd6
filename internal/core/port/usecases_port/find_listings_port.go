package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, filters map[string]string, page domain.PageRequest) (*domain.PageResult[domain.Listing], error)

	// ExecuteCards runs the same query but projects every row to the
	// reduced card shape at the store boundary.
	ExecuteCards(ctx context.Context, filters map[string]string, page domain.PageRequest) (*domain.PageResult[domain.ListingCard], error)
}
