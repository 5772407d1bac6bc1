package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"labourline/internal/geo"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, geo.DistanceKm(18.5204, 73.8567, 18.5204, 73.8567))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := geo.DistanceKm(18.5204, 73.8567, 19.0760, 72.8777) // Pune → Mumbai
	b := geo.DistanceKm(19.0760, 72.8777, 18.5204, 73.8567)
	assert.InDelta(t, a, b, 1e-9)
	// Roughly 120 km apart.
	assert.InDelta(t, 120, a, 10)
}

func TestDistanceKm_NearbyPoints(t *testing.T) {
	// Sample at (18.5200, 73.8560) for a site at (18.5204, 73.8567):
	// about 70 meters, well inside the geofence.
	d := geo.DistanceKm(18.5200, 73.8560, 18.5204, 73.8567)
	assert.InDelta(t, 0.07, d, 0.02)
	assert.True(t, geo.IsWithinArrival(d))
}

func TestDistanceKm_UnknownOnNaN(t *testing.T) {
	nan := math.NaN()
	assert.True(t, geo.IsUnknown(geo.DistanceKm(nan, 73.8, 18.5, 73.8)))
	assert.True(t, geo.IsUnknown(geo.DistanceKm(18.5, nan, 18.5, 73.8)))
	assert.True(t, geo.IsUnknown(geo.DistanceKm(18.5, 73.8, nan, 73.8)))
	assert.True(t, geo.IsUnknown(geo.DistanceKm(18.5, 73.8, 18.5, nan)))
	assert.False(t, geo.IsUnknown(geo.DistanceKm(18.5, 73.8, 18.5, 73.8)))
}

func TestIsWithinArrival_StrictBoundary(t *testing.T) {
	assert.True(t, geo.IsWithinArrival(0.199))
	assert.False(t, geo.IsWithinArrival(0.2)) // boundary is strict <
	assert.False(t, geo.IsWithinArrival(0.3))
	assert.True(t, geo.IsWithinArrival(0))
}

func TestIsWithinArrival_UnknownNeverArrives(t *testing.T) {
	assert.False(t, geo.IsWithinArrival(geo.Unknown))
}
