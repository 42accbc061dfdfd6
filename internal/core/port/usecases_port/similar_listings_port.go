package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"
)

type SimilarListingsUseCase interface {
	Execute(ctx context.Context, req domain.SimilarityRequest) ([]domain.Listing, error)
}
