package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"
)

type SearchListingsUseCase interface {
	Execute(ctx context.Context, req domain.SearchRequest) (*domain.PageResult[domain.Listing], error)
}
