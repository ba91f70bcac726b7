package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	// Two points in Linares, under a kilometer apart.
	a := Point{Lat: 38.09804121954383, Lon: -3.6237226800114724}
	b := Point{Lat: 38.09191774610039, Lon: -3.6296337846795628}

	d := Distance(a, b)
	assert.InDelta(t, 860, d, 100)

	// Symmetry and identity.
	assert.InDelta(t, d, Distance(b, a), 0.001)
	assert.Zero(t, Distance(a, a))
}

func TestDistanceKnownReference(t *testing.T) {
	// Madrid to Barcelona is about 505 km great-circle.
	madrid := Point{Lat: 40.4168, Lon: -3.7038}
	barcelona := Point{Lat: 41.3874, Lon: 2.1686}

	assert.InDelta(t, 505000, Distance(madrid, barcelona), 5000)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Point{}.IsZero())
	assert.False(t, Point{Lat: 38.1}.IsZero())
	assert.False(t, Point{Lon: -3.6}.IsZero())
}
