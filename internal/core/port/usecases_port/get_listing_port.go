package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetListingUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}

type IncrementViewsUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) error
}
