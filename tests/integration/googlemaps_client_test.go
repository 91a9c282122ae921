package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
)

// Integration tests hit the live Google Maps API and need a real key.
func liveClient(t *testing.T) *googlemaps.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		t.Skip("GOOGLE_MAPS_API_KEY not set")
	}
	return googlemaps.NewClient(key)
}

func TestGoogleMapsClient_Directions_Integration(t *testing.T) {
	client := liveClient(t)

	// Cologne cathedral to Bonn minster, roughly 25km apart
	origin := geo.Point{Latitude: 50.9413, Longitude: 6.9583}
	destination := geo.Point{Latitude: 50.7374, Longitude: 7.0982}

	route, err := client.Directions(context.Background(), origin, destination, nil, googlemaps.ModeDriving)
	require.NoError(t, err)
	require.NotNil(t, route)

	require.Greater(t, route.TotalDistanceMeters(), 20000, "Driving route should be > 20km")
	require.Less(t, route.TotalDistanceMeters(), 60000, "Driving route should be < 60km")
	require.Greater(t, route.TotalDurationSeconds(), 0)
	require.NotEmpty(t, route.OverviewPolyline.Points)

	points, err := geo.DecodePolyline(route.OverviewPolyline.Points)
	require.NoError(t, err)
	require.Greater(t, len(points), 2)
}

func TestGoogleMapsClient_Elevation_Integration(t *testing.T) {
	client := liveClient(t)

	locations := []geo.Point{
		{Latitude: 50.9413, Longitude: 6.9583}, // Cologne, Rhine valley
		{Latitude: 50.8665, Longitude: 7.0762}, // Drachenfels area
	}

	samples, err := client.ElevationForLocations(context.Background(), locations)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Rhine valley elevations are low but above sea level
	require.Greater(t, samples[0].Elevation, 0.0)
	require.Less(t, samples[0].Elevation, 500.0)
}

func TestElevationAggregator_Profile_Integration(t *testing.T) {
	client := liveClient(t)
	aggregator := elevation.NewAggregator(client)

	path := []geo.Point{
		{Latitude: 50.9413, Longitude: 6.9583},
		{Latitude: 50.9201, Longitude: 6.9799},
		{Latitude: 50.8885, Longitude: 7.0192},
	}

	profile, err := aggregator.ProfileForPoints(context.Background(), path, 3)
	require.NoError(t, err)
	require.Len(t, profile.Points, 3)
	require.GreaterOrEqual(t, profile.MaxElevation, profile.MinElevation)
	require.Greater(t, profile.TotalDistance, 0.0)
}
