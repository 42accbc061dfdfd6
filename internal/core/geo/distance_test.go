package geo

import (
	"testing"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestHaversineIdenticalPoints(t *testing.T) {
	p := domain.Coordinates{Latitude: 53.9, Longitude: 27.56}
	assert.Equal(t, 0.0, HaversineKm(p, p, DefaultEarthRadiusKm))
}

func TestHaversineAntipodal(t *testing.T) {
	a := domain.Coordinates{Latitude: 0, Longitude: 0}
	b := domain.Coordinates{Latitude: 0, Longitude: 180}

	// Half the circumference of the sphere.
	want := 3.141592653589793 * DefaultEarthRadiusKm
	got := HaversineKm(a, b, DefaultEarthRadiusKm)
	assert.InEpsilon(t, want, got, 0.001)
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is ~111.2 km on the default sphere.
	a := domain.Coordinates{Latitude: 50, Longitude: 10}
	b := domain.Coordinates{Latitude: 51, Longitude: 10}
	got := HaversineKm(a, b, DefaultEarthRadiusKm)
	assert.InDelta(t, 111.2, got, 0.3)
}

func TestHaversineScalesWithRadius(t *testing.T) {
	a := domain.Coordinates{Latitude: 10, Longitude: 20}
	b := domain.Coordinates{Latitude: 12, Longitude: 22}
	assert.InEpsilon(t,
		2*HaversineKm(a, b, DefaultEarthRadiusKm),
		HaversineKm(a, b, 2*DefaultEarthRadiusKm),
		1e-9)
}

func TestBoundingBoxAroundContainsCircle(t *testing.T) {
	center := domain.Coordinates{Latitude: 40, Longitude: -74}
	box := BoundingBoxAround(center, 10, DefaultEarthRadiusKm)

	assert.True(t, box.Contains(center))
	// Points 10 km due north/south/east/west stay inside the box.
	assert.True(t, box.Contains(domain.Coordinates{Latitude: 40.0899, Longitude: -74}))
	assert.True(t, box.Contains(domain.Coordinates{Latitude: 39.9101, Longitude: -74}))
	assert.True(t, box.Contains(domain.Coordinates{Latitude: 40, Longitude: -73.8827}))
	assert.True(t, box.Contains(domain.Coordinates{Latitude: 40, Longitude: -74.1173}))
	// A point far outside does not.
	assert.False(t, box.Contains(domain.Coordinates{Latitude: 41, Longitude: -74}))
}

func TestBoundingBoxAroundClampsAtPole(t *testing.T) {
	center := domain.Coordinates{Latitude: 89.9, Longitude: 0}
	box := BoundingBoxAround(center, 100, DefaultEarthRadiusKm)

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}
