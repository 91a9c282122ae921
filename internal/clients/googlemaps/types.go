package googlemaps

import "fmt"

const statusOK = "OK"

// TravelMode selects how the route is traversed.
type TravelMode int

const (
	ModeWalking TravelMode = iota
	ModeDriving
)

// String returns the wire value the Directions API expects.
func (m TravelMode) String() string {
	if m == ModeDriving {
		return "driving"
	}
	return "walking"
}

// ParseTravelMode maps a wire value back to a TravelMode.
func ParseTravelMode(s string) (TravelMode, error) {
	switch s {
	case "walking", "":
		return ModeWalking, nil
	case "driving":
		return ModeDriving, nil
	default:
		return ModeWalking, fmt.Errorf("unknown travel mode %q", s)
	}
}

// StatusError reports a non-"OK" status string from a Maps endpoint.
type StatusError struct {
	Endpoint string // "directions" or "elevation"
	Status   string
	Message  string // error_message from the response, when present
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("googlemaps %s: status %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("googlemaps %s: status %s", e.Endpoint, e.Status)
}

// DirectionsResponse mirrors the Directions API response body.
type DirectionsResponse struct {
	Routes       []Route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// Route is a single route alternative. OverviewPolyline carries the encoded
// geometry of the whole route.
type Route struct {
	Legs             []Leg            `json:"legs"`
	OverviewPolyline OverviewPolyline `json:"overview_polyline"`
	Summary          string           `json:"summary,omitempty"`
}

// TotalDistanceMeters sums the leg distances.
func (r *Route) TotalDistanceMeters() int {
	total := 0
	for _, leg := range r.Legs {
		total += leg.Distance.Value
	}
	return total
}

// TotalDurationSeconds sums the leg durations.
func (r *Route) TotalDurationSeconds() int {
	total := 0
	for _, leg := range r.Legs {
		total += leg.Duration.Value
	}
	return total
}

// Leg is the stretch between two consecutive stops of a route.
type Leg struct {
	Distance      TextValue `json:"distance"`
	Duration      TextValue `json:"duration"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
	Steps         []Step    `json:"steps"`
}

// Step is a single navigation instruction within a leg.
type Step struct {
	Distance         TextValue        `json:"distance"`
	Duration         TextValue        `json:"duration"`
	StartLocation    LatLng           `json:"start_location"`
	EndLocation      LatLng           `json:"end_location"`
	Polyline         OverviewPolyline `json:"polyline"`
	HTMLInstructions string           `json:"html_instructions"`
}

// TextValue is the API's human-readable/numeric pair; Value is meters for
// distances and seconds for durations.
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// LatLng is a coordinate as the Maps APIs serialize it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OverviewPolyline wraps an encoded polyline string.
type OverviewPolyline struct {
	Points string `json:"points"`
}

// ElevationResponse mirrors the Elevation API response body. Results are
// order-aligned with the requested locations.
type ElevationResponse struct {
	Results      []ElevationResult `json:"results"`
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// ElevationResult is a single elevation lookup result.
type ElevationResult struct {
	Elevation  float64 `json:"elevation"`
	Location   LatLng  `json:"location"`
	Resolution float64 `json:"resolution,omitempty"`
}
