package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"listing-query-service/internal/contextkeys"
	"listing-query-service/internal/core/domain"
	"listing-query-service/internal/core/geo"
	"listing-query-service/internal/core/port"
)

// SimilarityConfig tunes the similarity engine. Constants such as the Earth
// radius are injected here instead of living as process-wide globals, so the
// engine stays testable and reentrant.
type SimilarityConfig struct {
	EarthRadiusKm float64

	// CandidateLimit caps how many candidates are pulled from the store
	// for in-memory ranking.
	CandidateLimit int

	DefaultMaxPriceDelta float64
	DefaultMaxResults    int
}

func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		EarthRadiusKm:        geo.DefaultEarthRadiusKm,
		CandidateLimit:       500,
		DefaultMaxPriceDelta: 0.1,
		DefaultMaxResults:    10,
	}
}

type SimilarListingsUseCase struct {
	store port.ListingStorePort
	cfg   SimilarityConfig
}

func NewSimilarListingsUseCase(store port.ListingStorePort, cfg SimilarityConfig) *SimilarListingsUseCase {
	if cfg.EarthRadiusKm <= 0 {
		cfg.EarthRadiusKm = geo.DefaultEarthRadiusKm
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultSimilarityConfig().CandidateLimit
	}
	return &SimilarListingsUseCase{store: store, cfg: cfg}
}

type scoredListing struct {
	listing    domain.Listing
	priceDelta float64
	distanceKm *float64
}

// Execute ranks listings sharing the reference's transaction and property
// type by price proximity, then geo distance, then recency.
func (uc *SimilarListingsUseCase) Execute(ctx context.Context, req domain.SimilarityRequest) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SimilarListings",
		"listing_id": req.ListingID,
	})

	if req.MaxPriceDelta == 0 {
		req.MaxPriceDelta = uc.cfg.DefaultMaxPriceDelta
	}
	if req.MaxResults == 0 {
		req.MaxResults = uc.cfg.DefaultMaxResults
	}
	if err := validateSimilarityRequest(req); err != nil {
		return nil, err
	}

	ref, err := uc.store.Get(ctx, req.ListingID)
	if err != nil {
		ucLogger.Error("Reference listing lookup failed", err, nil)
		return nil, err
	}

	// A zero reference price makes the relative delta undefined; fail
	// closed with an empty result instead of dividing by zero.
	if ref.Price == 0 {
		ucLogger.Warn("Reference listing has zero price, no candidates qualify", nil)
		return []domain.Listing{}, nil
	}

	geoBounded := req.MaxDistanceKm != nil
	if geoBounded && ref.Coordinates == nil {
		ucLogger.Warn("Reference listing has no coordinates, geo-bounded similarity yields nothing", nil)
		return []domain.Listing{}, nil
	}

	pred := candidatePredicate(ref, req, uc.cfg.EarthRadiusKm)
	candidates, _, err := uc.store.Query(ctx, pred, domain.DefaultSort(), 0, uc.cfg.CandidateLimit)
	if err != nil {
		ucLogger.Error("Candidate query failed", err, nil)
		return nil, err
	}

	scored := make([]scoredListing, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ID == ref.ID {
			continue
		}

		delta := math.Abs(cand.Price-ref.Price) / ref.Price
		if delta > req.MaxPriceDelta {
			continue
		}

		var distance *float64
		if ref.Coordinates != nil && cand.Coordinates != nil {
			d := geo.HaversineKm(*ref.Coordinates, *cand.Coordinates, uc.cfg.EarthRadiusKm)
			distance = &d
		}
		if geoBounded {
			// The pushed-down bounding box is coarse; the exact
			// haversine cutoff is applied here.
			if distance == nil || *distance > *req.MaxDistanceKm {
				continue
			}
		}

		scored = append(scored, scoredListing{listing: cand, priceDelta: delta, distanceKm: distance})
	}

	rankScored(scored)
	if len(scored) > req.MaxResults {
		scored = scored[:req.MaxResults]
	}

	result := make([]domain.Listing, len(scored))
	for i, s := range scored {
		result[i] = s.listing
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"returned":   len(result),
	})
	return result, nil
}

func validateSimilarityRequest(req domain.SimilarityRequest) error {
	if req.MaxPriceDelta < 0 || req.MaxPriceDelta > 1 {
		return fmt.Errorf("%w: max price delta %v must be within (0, 1]", domain.ErrInvalidArgument, req.MaxPriceDelta)
	}
	if req.MaxResults < 0 {
		return fmt.Errorf("%w: max results %d must be positive", domain.ErrInvalidArgument, req.MaxResults)
	}
	if req.MaxDistanceKm != nil && *req.MaxDistanceKm <= 0 {
		return fmt.Errorf("%w: max distance %v km must be positive", domain.ErrInvalidArgument, *req.MaxDistanceKm)
	}
	return nil
}

// candidatePredicate pushes everything the store can evaluate down: type
// equality, the moderation flag, the absolute price window derived from the
// relative delta, and a bounding box around the reference when the request
// is geo-bounded.
func candidatePredicate(ref *domain.Listing, req domain.SimilarityRequest, earthRadiusKm float64) domain.Predicate {
	pred := domain.Predicate{}.And(
		domain.Condition{Field: "transactionType", Op: domain.OpEqual, Value: string(ref.TransactionType)},
		domain.Condition{Field: "propertyType", Op: domain.OpEqualFold, Value: ref.PropertyType},
		domain.Condition{Field: "disabled", Op: domain.OpEqual, Value: false},
		domain.Condition{Field: "price", Op: domain.OpGTE, Value: ref.Price * (1 - req.MaxPriceDelta)},
		domain.Condition{Field: "price", Op: domain.OpLTE, Value: ref.Price * (1 + req.MaxPriceDelta)},
	)

	if req.MaxDistanceKm != nil && ref.Coordinates != nil {
		box := geo.BoundingBoxAround(*ref.Coordinates, *req.MaxDistanceKm, earthRadiusKm)
		pred = pred.And(domain.Condition{Field: "coordinates", Op: domain.OpWithinBox, Value: box})
	}
	return pred
}

// rankScored orders by ascending price delta, then ascending distance with
// unknown distances last, then recency, then id for determinism.
func rankScored(scored []scoredListing) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.priceDelta != b.priceDelta {
			return a.priceDelta < b.priceDelta
		}
		switch {
		case a.distanceKm != nil && b.distanceKm != nil:
			if *a.distanceKm != *b.distanceKm {
				return *a.distanceKm < *b.distanceKm
			}
		case a.distanceKm != nil:
			return true
		case b.distanceKm != nil:
			return false
		}
		if !a.listing.UpdatedAt.Equal(b.listing.UpdatedAt) {
			return a.listing.UpdatedAt.After(b.listing.UpdatedAt)
		}
		return a.listing.ID.String() < b.listing.ID.String()
	})
}
