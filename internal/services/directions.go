package services

import (
	"context"
	"fmt"
	"log"

	"github.com/kulturpfad/server/internal/cache"
	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/config"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
	"github.com/kulturpfad/server/internal/lib/spline"
)

// RouteRequest describes a single directions query.
type RouteRequest struct {
	Origin      geo.Point             `json:"origin"`
	Destination geo.Point             `json:"destination"`
	Waypoints   []geo.Point           `json:"waypoints,omitempty"`
	Mode        googlemaps.TravelMode `json:"-"`

	// IncludeElevation requests an elevation profile alongside the route.
	// Elevation is best-effort: a profile failure never fails the route.
	IncludeElevation bool `json:"include_elevation,omitempty"`
	// SmoothPath requests a Bezier-smoothed copy of the route path for
	// rendering.
	SmoothPath bool `json:"smooth_path,omitempty"`
}

// RouteResult is a fetched route plus optional enrichments.
type RouteResult struct {
	Summary         string             `json:"summary,omitempty"`
	DistanceMeters  int                `json:"distance_meters"`
	DurationSeconds int                `json:"duration_seconds"`
	Polyline        geo.Polyline       `json:"polyline"`
	SmoothedPath    []geo.Point        `json:"smoothed_path,omitempty"`
	Elevation       *elevation.Profile `json:"elevation,omitempty"`
}

// DirectionsService orchestrates route fetching, decoding, smoothing and
// elevation enrichment.
type DirectionsService struct {
	mapsClient *googlemaps.Client
	aggregator *elevation.Aggregator
	cache      *cache.Cache
	config     *config.Config
}

// NewDirectionsService creates a new DirectionsService. aggregator may be
// nil, in which case elevation enrichment is silently unavailable.
func NewDirectionsService(mapsClient *googlemaps.Client, aggregator *elevation.Aggregator, cache *cache.Cache, config *config.Config) *DirectionsService {
	return &DirectionsService{
		mapsClient: mapsClient,
		aggregator: aggregator,
		cache:      cache,
		config:     config,
	}
}

// GetRoute fetches a route and applies the requested enrichments. Route data
// is cached per origin/destination/waypoints/mode; elevation profiles are
// cached separately per path.
func (s *DirectionsService) GetRoute(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	cacheKey := cache.RouteKey(req.Origin, req.Destination, req.Waypoints, req.Mode.String())

	// GetWithMetadata returns data even when stale so a failed refresh can
	// fall back to it.
	var result RouteResult
	_, found, err := s.cache.GetWithMetadata(cacheKey, &result)
	if err != nil {
		log.Printf("Cache error: %v", err)
		found = false
	}

	if !found || s.cache.IsStale(cacheKey) {
		fresh, err := s.fetchRoute(ctx, req)
		if err != nil {
			// Serve stale data if we have it and it is not too old
			if found && !s.cache.IsVeryStale(cacheKey) {
				log.Printf("Route refresh failed, returning stale cached route: %v", err)
			} else {
				return nil, err
			}
		} else {
			result = *fresh
			if err := s.cache.Set(cacheKey, &result, s.config.GoogleMaps.RefreshInterval, "directions"); err != nil {
				log.Printf("Failed to cache route: %v", err)
			}
		}
	}

	if req.SmoothPath {
		result.SmoothedPath = spline.Smooth(result.Polyline.Points, s.config.Smoothing.SegmentsPerCurve)
	}

	if req.IncludeElevation {
		result.Elevation = s.routeElevation(ctx, result.Polyline)
	}

	return &result, nil
}

// Route fetches a route between two points with no enrichments.
func (s *DirectionsService) Route(ctx context.Context, origin, destination geo.Point, mode googlemaps.TravelMode) (*RouteResult, error) {
	return s.GetRoute(ctx, RouteRequest{Origin: origin, Destination: destination, Mode: mode})
}

// RouteWithWaypoints fetches a route through ordered intermediate stops.
// The directions service, not this layer, decides the exact routing.
func (s *DirectionsService) RouteWithWaypoints(ctx context.Context, origin geo.Point, waypoints []geo.Point, destination geo.Point, mode googlemaps.TravelMode) (*RouteResult, error) {
	return s.GetRoute(ctx, RouteRequest{Origin: origin, Destination: destination, Waypoints: waypoints, Mode: mode})
}

// RouteWithElevation fetches a route and attaches a best-effort elevation
// profile. A profile failure leaves Elevation nil without failing the route.
func (s *DirectionsService) RouteWithElevation(ctx context.Context, origin, destination geo.Point, mode googlemaps.TravelMode) (*RouteResult, error) {
	return s.GetRoute(ctx, RouteRequest{Origin: origin, Destination: destination, Mode: mode, IncludeElevation: true})
}

// RouteWithWaypointsAndElevation combines waypoint routing with best-effort
// elevation enrichment.
func (s *DirectionsService) RouteWithWaypointsAndElevation(ctx context.Context, origin geo.Point, waypoints []geo.Point, destination geo.Point, mode googlemaps.TravelMode) (*RouteResult, error) {
	return s.GetRoute(ctx, RouteRequest{Origin: origin, Destination: destination, Waypoints: waypoints, Mode: mode, IncludeElevation: true})
}

// SmoothedPath decodes an encoded polyline and returns a Bezier-smoothed
// copy of it.
func (s *DirectionsService) SmoothedPath(encodedPolyline string) ([]geo.Point, error) {
	points, err := geo.DecodePolyline(encodedPolyline)
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	return spline.Smooth(points, s.config.Smoothing.SegmentsPerCurve), nil
}

// ElevationProfile builds an elevation profile for an encoded polyline.
// Unlike route enrichment this is a hard operation: failures are returned.
func (s *DirectionsService) ElevationProfile(ctx context.Context, encodedPolyline string, samples int) (*elevation.Profile, error) {
	if s.aggregator == nil {
		return nil, fmt.Errorf("elevation service not configured")
	}
	if samples <= 0 {
		samples = s.config.Elevation.DefaultSamples
	}

	cacheKey := cache.ProfileKey(encodedPolyline, samples)
	var profile elevation.Profile
	found, err := s.cache.Get(cacheKey, &profile)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found {
		return &profile, nil
	}

	fresh, err := s.aggregator.ProfileForEncodedPath(ctx, encodedPolyline, samples)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, fresh, s.config.GoogleMaps.RefreshInterval, "elevation"); err != nil {
		log.Printf("Failed to cache elevation profile: %v", err)
	}
	return fresh, nil
}

// fetchRoute queries the directions API and decodes the overview polyline.
func (s *DirectionsService) fetchRoute(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	route, err := s.mapsClient.Directions(ctx, req.Origin, req.Destination, req.Waypoints, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	points, err := geo.DecodePolyline(route.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}

	return &RouteResult{
		Summary:         route.Summary,
		DistanceMeters:  route.TotalDistanceMeters(),
		DurationSeconds: route.TotalDurationSeconds(),
		Polyline: geo.Polyline{
			EncodedPolyline: route.OverviewPolyline.Points,
			Points:          points,
		},
	}, nil
}

// routeElevation builds a best-effort elevation profile for a route path.
// Returns nil when the aggregator is absent or the lookup fails; the route
// itself is still usable without a profile.
func (s *DirectionsService) routeElevation(ctx context.Context, path geo.Polyline) *elevation.Profile {
	if s.aggregator == nil {
		return nil
	}

	samples := s.config.Elevation.DefaultSamples
	cacheKey := cache.ProfileKey(path.EncodedPolyline, samples)

	var cached elevation.Profile
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found {
		return &cached
	}

	profile, err := s.aggregator.ProfileForPoints(ctx, path.Points, samples)
	if err != nil {
		log.Printf("Elevation enrichment failed, returning route without profile: %v", err)
		return nil
	}

	if err := s.cache.Set(cacheKey, profile, s.config.GoogleMaps.RefreshInterval, "elevation"); err != nil {
		log.Printf("Failed to cache elevation profile: %v", err)
	}
	return profile
}
