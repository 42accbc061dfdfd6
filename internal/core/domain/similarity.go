package domain

import "github.com/google/uuid"

// SimilarityRequest asks for listings similar to a reference listing.
type SimilarityRequest struct {
	ListingID uuid.UUID

	// MaxPriceDelta is the allowed relative price difference, 0..1.
	// A candidate qualifies when |price - refPrice| / refPrice <= MaxPriceDelta.
	MaxPriceDelta float64

	// MaxDistanceKm, when set, excludes candidates farther than this from
	// the reference. Candidates or references without coordinates are
	// excluded rather than failing the request.
	MaxDistanceKm *float64

	MaxResults int
}
