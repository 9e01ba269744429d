// internal/utils/geo_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Same point.
	assert.Equal(t, 0.0, HaversineKm(40.7128, -74.0060, 40.7128, -74.0060))

	// One degree of latitude is roughly 111km.
	assert.InDelta(t, 111.2, HaversineKm(40.0, -74.0, 41.0, -74.0), 0.5)

	// New York to Philadelphia, roughly 130km.
	assert.InDelta(t, 130.0, HaversineKm(40.7128, -74.0060, 39.9526, -75.1652), 5.0)

	// Symmetric.
	assert.Equal(t,
		HaversineKm(40.7128, -74.0060, 39.9526, -75.1652),
		HaversineKm(39.9526, -75.1652, 40.7128, -74.0060))
}

func TestBoundingBox(t *testing.T) {
	minLat, maxLat, minLng, maxLng := BoundingBox(40.7128, -74.0060, 5)

	assert.Less(t, minLat, 40.7128)
	assert.Greater(t, maxLat, 40.7128)
	assert.Less(t, minLng, -74.0060)
	assert.Greater(t, maxLng, -74.0060)

	// The box must cover the radius: its corners lie beyond 5km.
	assert.Greater(t, HaversineKm(40.7128, -74.0060, maxLat, -74.0060), 4.99)
	assert.Greater(t, HaversineKm(40.7128, -74.0060, 40.7128, maxLng), 4.99)
}
