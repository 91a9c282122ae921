// Package googlemaps wraps the legacy Google Maps web service endpoints the
// pipeline depends on: the Directions API and the Elevation API. Both speak
// JSON over HTTPS and signal failure through a "status" string; any status
// other than "OK" is a hard failure for that call.
package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
)

// MaxElevationLocations is the Elevation API's documented per-request cap.
const MaxElevationLocations = 512

// ErrMissingAPIKey is returned before any network call when the client was
// constructed without an API key.
var ErrMissingAPIKey = errors.New("googlemaps: API key not configured")

// HTTPDoer abstracts the HTTP transport so tests can substitute a mock.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Maps Directions and Elevation APIs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a client against the production Maps endpoints.
func NewClient(apiKey string) *Client {
	return NewClientWithHTTPDoer(apiKey, "https://maps.googleapis.com/maps/api", &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with a custom base URL and transport.
func NewClientWithHTTPDoer(apiKey, baseURL string, httpClient HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Directions requests a route from origin to destination. Waypoints, when
// present, are passed through in order as intermediate stops; the service
// decides the exact routing. The first route of an "OK" response is returned.
func (c *Client) Directions(ctx context.Context, origin, destination geo.Point, waypoints []geo.Point, mode TravelMode) (*Route, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("origin", formatPoint(origin))
	params.Set("destination", formatPoint(destination))
	params.Set("mode", mode.String())
	params.Set("key", c.apiKey)
	if len(waypoints) > 0 {
		params.Set("waypoints", formatPoints(waypoints))
	}

	var response DirectionsResponse
	if err := c.getJSON(ctx, "/directions/json", params, &response); err != nil {
		return nil, err
	}

	if response.Status != statusOK || len(response.Routes) == 0 {
		return nil, &StatusError{
			Endpoint: "directions",
			Status:   response.Status,
			Message:  response.ErrorMessage,
		}
	}

	return &response.Routes[0], nil
}

// ElevationForLocations resolves elevations for up to MaxElevationLocations
// points in a single request. Results are order-aligned with the input.
// Implements elevation.Lookup; batching beyond the cap is the aggregator's
// job, not the client's.
func (c *Client) ElevationForLocations(ctx context.Context, locations []geo.Point) ([]elevation.Sample, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(locations) == 0 {
		return []elevation.Sample{}, nil
	}
	if len(locations) > MaxElevationLocations {
		return nil, fmt.Errorf("googlemaps: %d locations exceeds the %d per-request limit",
			len(locations), MaxElevationLocations)
	}

	params := url.Values{}
	params.Set("locations", formatPoints(locations))
	params.Set("key", c.apiKey)

	var response ElevationResponse
	if err := c.getJSON(ctx, "/elevation/json", params, &response); err != nil {
		return nil, err
	}

	if response.Status != statusOK {
		return nil, &StatusError{
			Endpoint: "elevation",
			Status:   response.Status,
			Message:  response.ErrorMessage,
		}
	}

	samples := make([]elevation.Sample, len(response.Results))
	for i, result := range response.Results {
		samples[i] = elevation.Sample{
			Location:  geo.Point{Latitude: result.Location.Lat, Longitude: result.Location.Lng},
			Elevation: result.Elevation,
		}
	}

	return samples, nil
}

// getJSON performs a GET against a Maps endpoint and decodes the body.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// formatPoint renders a coordinate the way the Maps query parameters expect.
func formatPoint(p geo.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// formatPoints joins coordinates with the pipe separator used by the
// waypoints and locations parameters.
func formatPoints(points []geo.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, "|")
}
