// Package geo holds the spherical-earth math used by geo filters and
// distance-bounded similarity.
package geo

import (
	"math"

	"listing-query-service/internal/core/domain"
)

// DefaultEarthRadiusKm is the spherical Earth approximation radius.
// The similarity engine takes the radius as configuration; this is only
// the conventional default.
const DefaultEarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points on a
// sphere of the given radius.
func HaversineKm(a, b domain.Coordinates, radiusKm float64) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng

	return 2 * radiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBoxAround returns a box that encloses the circle of the given
// radius around the center. Used to push a coarse geo prefilter down to the
// store before exact haversine filtering.
func BoundingBoxAround(center domain.Coordinates, distanceKm, earthRadiusKm float64) domain.BoundingBox {
	dLat := (distanceKm / earthRadiusKm) * 180 / math.Pi

	// Longitude degrees shrink with latitude; clamp near the poles where
	// the box degenerates to the full longitude range.
	cosLat := math.Cos(center.Latitude * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = dLat / cosLat
	}

	return domain.BoundingBox{
		MinLat: math.Max(-90, center.Latitude-dLat),
		MaxLat: math.Min(90, center.Latitude+dLat),
		MinLng: math.Max(-180, center.Longitude-dLng),
		MaxLng: math.Min(180, center.Longitude+dLng),
	}
}
