package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kulturpfad/server/internal/cache"
	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/config"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
)

type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

// fakeLookup serves elevations computed from latitude so profiles are
// deterministic without HTTP.
type fakeLookup struct {
	calls int
	err   error
}

func (f *fakeLookup) ElevationForLocations(ctx context.Context, locations []geo.Point) ([]elevation.Sample, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	samples := make([]elevation.Sample, len(locations))
	for i, loc := range locations {
		samples[i] = elevation.Sample{Location: loc, Elevation: loc.Latitude * 10}
	}
	return samples, nil
}

func loadTestFixture(t *testing.T, filename string) string {
	data, err := os.ReadFile("../../tests/testdata/googlemaps/" + filename)
	require.NoError(t, err, "Failed to load test fixture %s", filename)
	return string(data)
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

var (
	testOrigin      = geo.Point{Latitude: 50.9413, Longitude: 6.9583}
	testDestination = geo.Point{Latitude: 50.8885, Longitude: 7.0192}
)

func newTestService(t *testing.T, mockHTTP *MockHTTPDoer, lookup elevation.Lookup) *DirectionsService {
	t.Helper()
	client := googlemaps.NewClientWithHTTPDoer("test-api-key", "https://maps.googleapis.com/maps/api", mockHTTP)
	var aggregator *elevation.Aggregator
	if lookup != nil {
		aggregator = elevation.NewAggregator(lookup)
	}
	return NewDirectionsService(client, aggregator, cache.NewCache(), config.DefaultConfig())
}

func TestGetRoute_Success(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil).Once()

	service := newTestService(t, mockHTTP, nil)

	result, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        googlemaps.ModeWalking,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 7421, result.DistanceMeters)
	assert.Equal(t, 5341, result.DurationSeconds)
	assert.Equal(t, "Rheinuferweg", result.Summary)
	assert.NotEmpty(t, result.Polyline.EncodedPolyline)
	assert.Len(t, result.Polyline.Points, 10)
	assert.Nil(t, result.SmoothedPath, "No smoothing unless requested")
	assert.Nil(t, result.Elevation, "No elevation unless requested")

	mockHTTP.AssertExpectations(t)
}

func TestGetRoute_ServedFromCache(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil).Once()

	service := newTestService(t, mockHTTP, nil)

	req := RouteRequest{Origin: testOrigin, Destination: testDestination, Mode: googlemaps.ModeWalking}

	first, err := service.GetRoute(context.Background(), req)
	require.NoError(t, err)

	// Second identical request must not hit the API again
	second, err := service.GetRoute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Polyline.EncodedPolyline, second.Polyline.EncodedPolyline)

	mockHTTP.AssertExpectations(t)
	mockHTTP.AssertNumberOfCalls(t, "Do", 1)
}

func TestGetRoute_SmoothPath(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil)

	service := newTestService(t, mockHTTP, nil)

	result, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        googlemaps.ModeWalking,
		SmoothPath:  true,
	})
	require.NoError(t, err)

	// 10 original points, 10 segments per curve
	require.Len(t, result.SmoothedPath, 1+(10-1)*10)
	assert.Equal(t, result.Polyline.Points[0], result.SmoothedPath[0])
}

func TestGetRoute_WithElevation(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil)

	lookup := &fakeLookup{}
	service := newTestService(t, mockHTTP, lookup)

	result, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:           testOrigin,
		Destination:      testDestination,
		Mode:             googlemaps.ModeWalking,
		IncludeElevation: true,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Elevation)
	assert.Len(t, result.Elevation.Points, 10)
	assert.Positive(t, result.Elevation.TotalDistance)
	assert.Equal(t, 1, lookup.calls)
}

func TestGetRoute_ElevationFailureDoesNotFailRoute(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil)

	lookup := &fakeLookup{err: errors.New("quota exceeded")}
	service := newTestService(t, mockHTTP, lookup)

	result, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:           testOrigin,
		Destination:      testDestination,
		Mode:             googlemaps.ModeWalking,
		IncludeElevation: true,
	})
	require.NoError(t, err, "Route must survive an elevation failure")
	require.NotNil(t, result)
	assert.Nil(t, result.Elevation)
	assert.Len(t, result.Polyline.Points, 10)
}

func TestGetRoute_ElevationWithoutAggregator(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil)

	service := newTestService(t, mockHTTP, nil)

	result, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:           testOrigin,
		Destination:      testDestination,
		Mode:             googlemaps.ModeWalking,
		IncludeElevation: true,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Elevation)
}

func TestGetRoute_APIFailure(t *testing.T) {
	body := `{"routes": [], "status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, body), nil)

	service := newTestService(t, mockHTTP, nil)

	_, err := service.GetRoute(context.Background(), RouteRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        googlemaps.ModeWalking,
	})
	require.Error(t, err)

	var statusErr *googlemaps.StatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestRouteWithElevation(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil)

	lookup := &fakeLookup{}
	service := newTestService(t, mockHTTP, lookup)

	result, err := service.RouteWithElevation(context.Background(), testOrigin, testDestination, googlemaps.ModeWalking)
	require.NoError(t, err)
	require.NotNil(t, result.Elevation)

	// Plain Route on the same pair shares the cached route but carries no
	// profile
	plain, err := service.Route(context.Background(), testOrigin, testDestination, googlemaps.ModeWalking)
	require.NoError(t, err)
	assert.Nil(t, plain.Elevation)
	mockHTTP.AssertNumberOfCalls(t, "Do", 1)
}

func TestRouteWithWaypoints_CachedSeparately(t *testing.T) {
	fixtureData := loadTestFixture(t, "directions_cologne_bonn.json")

	mockHTTP := &MockHTTPDoer{}
	// Each fetch needs a response with an unread body; a single shared
	// response would be drained by the first call.
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil).Once()
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixtureData), nil).Once()

	service := newTestService(t, mockHTTP, nil)

	_, err := service.Route(context.Background(), testOrigin, testDestination, googlemaps.ModeWalking)
	require.NoError(t, err)

	waypoint := geo.Point{Latitude: 50.9201, Longitude: 6.9799}
	_, err = service.RouteWithWaypoints(context.Background(), testOrigin, []geo.Point{waypoint}, testDestination, googlemaps.ModeWalking)
	require.NoError(t, err)

	// Different waypoints mean a different cache key, so two fetches
	mockHTTP.AssertNumberOfCalls(t, "Do", 2)
}

func TestElevationProfile(t *testing.T) {
	lookup := &fakeLookup{}
	service := newTestService(t, &MockHTTPDoer{}, lookup)

	encoded := geo.EncodePolyline([]geo.Point{
		{Latitude: 50.9413, Longitude: 6.9583},
		{Latitude: 50.9201, Longitude: 6.9799},
		{Latitude: 50.8885, Longitude: 7.0192},
	})

	profile, err := service.ElevationProfile(context.Background(), encoded, 0)
	require.NoError(t, err)
	require.Len(t, profile.Points, 3)
	assert.Positive(t, profile.TotalDistance)

	// Second call is served from cache
	_, err = service.ElevationProfile(context.Background(), encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls)
}

func TestElevationProfile_NotConfigured(t *testing.T) {
	service := newTestService(t, &MockHTTPDoer{}, nil)

	_, err := service.ElevationProfile(context.Background(), "cn|uHk`ni@", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSmoothedPath(t *testing.T) {
	service := newTestService(t, &MockHTTPDoer{}, nil)

	encoded := geo.EncodePolyline([]geo.Point{
		{Latitude: 50.9413, Longitude: 6.9583},
		{Latitude: 50.9201, Longitude: 6.9799},
		{Latitude: 50.8885, Longitude: 7.0192},
	})

	smoothed, err := service.SmoothedPath(encoded)
	require.NoError(t, err)
	assert.Len(t, smoothed, 1+(3-1)*10)
}
