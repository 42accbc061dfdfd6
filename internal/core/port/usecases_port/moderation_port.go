package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
)

type SetFeaturedUseCase interface {
	Execute(ctx context.Context, id uuid.UUID, featured bool) error
}

type SetDisabledUseCase interface {
	Execute(ctx context.Context, id uuid.UUID, disabled bool) error
}

type GetFeaturedUseCase interface {
	Execute(ctx context.Context, limit int, fillRandom bool) ([]domain.Listing, error)
}
