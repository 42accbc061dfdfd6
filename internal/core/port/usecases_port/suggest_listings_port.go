package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"
)

type SuggestListingsUseCase interface {
	Execute(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)
}
