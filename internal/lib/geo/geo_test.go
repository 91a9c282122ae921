package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test coordinates: Cologne cathedral to Bonn city center, a route the app
// actually computes.
var (
	cologne = Point{Latitude: 50.9413, Longitude: 6.9583}
	bonn    = Point{Latitude: 50.7374, Longitude: 7.0982}
)

func TestDistance(t *testing.T) {
	distance := Distance(cologne, bonn)

	// Great-circle distance Cologne-Bonn is roughly 24.7 km
	assert.InDelta(t, 24700, distance, 300, "Distance should be approximately 24.7km")

	// Distance from a point to itself is exactly 0
	assert.Equal(t, 0.0, Distance(cologne, cologne))

	// Symmetry
	assert.InDelta(t, Distance(cologne, bonn), Distance(bonn, cologne), 1e-9)
}

func TestDistance_TriangleInequality(t *testing.T) {
	a := Point{Latitude: 50.9413, Longitude: 6.9583}
	b := Point{Latitude: 50.8500, Longitude: 7.0200}
	c := Point{Latitude: 50.7374, Longitude: 7.0982}

	direct := Distance(a, c)
	viaB := Distance(a, b) + Distance(b, c)
	assert.LessOrEqual(t, direct, viaB+1e-6, "Spherical triangle inequality should hold")
}

func TestBearing(t *testing.T) {
	origin := Point{Latitude: 50.0, Longitude: 6.0}

	north := Point{Latitude: 51.0, Longitude: 6.0}
	assert.InDelta(t, 0, Bearing(origin, north), 0.01, "Due north should be 0 degrees")

	south := Point{Latitude: 49.0, Longitude: 6.0}
	assert.InDelta(t, 180, Bearing(origin, south), 0.01, "Due south should be 180 degrees")

	east := Point{Latitude: 50.0, Longitude: 7.0}
	bearing := Bearing(origin, east)
	assert.InDelta(t, 90, bearing, 1, "Roughly east should be near 90 degrees")

	// Result is always normalized into [0, 360)
	west := Point{Latitude: 50.0, Longitude: 5.0}
	bearing = Bearing(origin, west)
	assert.GreaterOrEqual(t, bearing, 0.0)
	assert.Less(t, bearing, 360.0)
	assert.InDelta(t, 270, bearing, 1, "Roughly west should be near 270 degrees")
}

func TestDestination(t *testing.T) {
	origin := Point{Latitude: 50.9413, Longitude: 6.9583}

	// Projecting forward and measuring back must agree with the requested
	// distance; this is exact on the sphere.
	for _, bearing := range []float64{0, 45, 90, 135, 180, 270} {
		dest := Destination(origin, bearing, 1000)
		assert.InDelta(t, 1000, Distance(origin, dest), 0.01,
			"Distance to projected point should match for bearing %v", bearing)
	}

	// Projecting due north only moves latitude
	north := Destination(origin, 0, 1000)
	assert.Greater(t, north.Latitude, origin.Latitude)
	assert.InDelta(t, origin.Longitude, north.Longitude, 1e-9)

	// Zero distance is a no-op
	same := Destination(origin, 123, 0)
	assert.InDelta(t, origin.Latitude, same.Latitude, 1e-12)
	assert.InDelta(t, origin.Longitude, same.Longitude, 1e-12)
}

func TestPathDistances(t *testing.T) {
	points := []Point{
		{Latitude: 50.9413, Longitude: 6.9583},
		{Latitude: 50.9000, Longitude: 7.0000},
		{Latitude: 50.8500, Longitude: 7.0400},
		{Latitude: 50.7374, Longitude: 7.0982},
	}

	distances := PathDistances(points)
	require.Len(t, distances, len(points))
	assert.Equal(t, 0.0, distances[0], "First point has cumulative distance 0")

	for i := 1; i < len(distances); i++ {
		assert.GreaterOrEqual(t, distances[i], distances[i-1],
			"Cumulative distances must be non-decreasing")
	}

	assert.InDelta(t, PathLength(points), distances[len(distances)-1], 1e-9,
		"Last cumulative distance equals total path length")

	// Degenerate inputs
	assert.Empty(t, PathDistances(nil))
	assert.Equal(t, []float64{0}, PathDistances(points[:1]))
}

func TestDecodePolyline(t *testing.T) {
	// The worked example from Google's polyline encoding documentation
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	points, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-5)
	assert.InDelta(t, 40.7, points[1].Latitude, 1e-5)
	assert.InDelta(t, -120.95, points[1].Longitude, 1e-5)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-5)
	assert.InDelta(t, -126.453, points[2].Longitude, 1e-5)

	_, err = DecodePolyline("")
	assert.Error(t, err, "Empty string should not decode")
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	original := []Point{
		{Latitude: 50.94130, Longitude: 6.95830},
		{Latitude: 50.90000, Longitude: 7.00000},
		{Latitude: 50.73740, Longitude: 7.09820},
	}

	encoded := EncodePolyline(original)
	require.NotEmpty(t, encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))

	// Round trip is exact within the encoding's 1e-5 degree precision
	for i := range original {
		assert.InDelta(t, original[i].Latitude, decoded[i].Latitude, 1e-5)
		assert.InDelta(t, original[i].Longitude, decoded[i].Longitude, 1e-5)
	}
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(50.9413, 6.9583)
	require.NoError(t, err)
	assert.Equal(t, 50.9413, p.Latitude)

	_, err = NewPoint(200, -300)
	assert.Error(t, err, "Should reject out-of-range coordinates")
}
