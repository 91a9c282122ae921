package elevation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kulturpfad/server/internal/lib/geo"
)

// Sample pairs a location with its elevation and the cumulative distance
// along the sequence it belongs to.
type Sample struct {
	Location  geo.Point `json:"location"`
	Elevation float64   `json:"elevation_meters"`
	Distance  float64   `json:"cumulative_distance_meters"`
}

// Profile is the aggregated elevation profile of a path.
type Profile struct {
	Points        []Sample `json:"points"`
	MinElevation  float64  `json:"min_elevation"`
	MaxElevation  float64  `json:"max_elevation"`
	TotalAscent   float64  `json:"total_ascent"`
	TotalDescent  float64  `json:"total_descent"`
	TotalDistance float64  `json:"total_distance"`
}

// ElevationRange returns the spread between the highest and lowest point.
func (p *Profile) ElevationRange() float64 {
	return p.MaxElevation - p.MinElevation
}

// Lookup is the external elevation service dependency. Implementations
// resolve elevations for the given locations, order-aligned with the input,
// and must respect the caller's context.
type Lookup interface {
	ElevationForLocations(ctx context.Context, locations []geo.Point) ([]Sample, error)
}

// ErrEmptyInput is returned when a profile is requested for zero points.
var ErrEmptyInput = errors.New("elevation: no points provided")

// ChunkError reports which chunk of a multi-request lookup failed. Partial
// results from earlier chunks are discarded, never returned.
type ChunkError struct {
	Chunk int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("elevation lookup failed on chunk %d: %v", e.Chunk, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
