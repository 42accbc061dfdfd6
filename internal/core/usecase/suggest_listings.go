package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/port"
)

// overfetchFactor widens the store fetch so that ranking and deduplication
// still leave enough candidates to fill the requested limit.
const overfetchFactor = 4

type SuggestListingsUseCase struct {
	store port.ListingStorePort
}

func NewSuggestListingsUseCase(store port.ListingStorePort) *SuggestListingsUseCase {
	return &SuggestListingsUseCase{store: store}
}

// Execute returns at most limit typeahead suggestions for the query.
// Ranking: exact-prefix matches before substring matches, then shorter
// labels before longer, then alphabetical. Duplicate (listing, label)
// pairs are dropped.
func (uc *SuggestListingsUseCase) Execute(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SuggestListings",
		"query":    query,
		"limit":    limit,
	})

	if limit <= 0 {
		return nil, fmt.Errorf("%w: suggestion limit %d must be positive", domain.ErrInvalidArgument, limit)
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []domain.Suggestion{}, nil
	}

	candidates, err := uc.store.SuggestLabels(ctx, normalized, limit*overfetchFactor)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ranked := rankSuggestions(candidates, normalized)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"returned":   len(ranked),
	})
	return ranked, nil
}

func rankSuggestions(candidates []domain.Suggestion, query string) []domain.Suggestion {
	seen := make(map[string]struct{}, len(candidates))
	ranked := make([]domain.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		key := c.ListingID.String() + "\x00" + strings.ToLower(c.Label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		li := strings.ToLower(ranked[i].Label)
		lj := strings.ToLower(ranked[j].Label)

		pi := strings.HasPrefix(li, query)
		pj := strings.HasPrefix(lj, query)
		if pi != pj {
			return pi
		}
		if len(li) != len(lj) {
			return len(li) < len(lj)
		}
		return li < lj
	})
	return ranked
}
