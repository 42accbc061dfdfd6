package usecases_port

import (
	"context"

	"listing-query-service/internal/core/domain"

	"github.com/google/uuid"
)

type SaveListingUseCase interface {
	// Execute upserts the listing and reports (id, updated).
	Execute(ctx context.Context, listing domain.Listing) (uuid.UUID, bool, error)
}

type RemoveListingsUseCase interface {
	Execute(ctx context.Context, ids ...uuid.UUID) error
	ExecuteByExternalIDs(ctx context.Context, source domain.ListingSource, externalIDs []string) error
}
