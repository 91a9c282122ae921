package elevation

import (
	"context"
	"fmt"
	"math"

	"github.com/kulturpfad/server/internal/lib/geo"
)

// MaxPointsPerRequest is the documented per-call limit of the external
// elevation service.
const MaxPointsPerRequest = 512

// Aggregator obtains per-point elevations through a Lookup, batching
// requests under the service's per-call cap, and derives profile statistics.
type Aggregator struct {
	lookup Lookup
}

// NewAggregator creates an Aggregator backed by the given lookup service.
func NewAggregator(lookup Lookup) *Aggregator {
	return &Aggregator{lookup: lookup}
}

// ElevationForPoints resolves elevations for an arbitrary number of points,
// splitting the sequence into consecutive chunks of at most
// MaxPointsPerRequest and concatenating the results in chunk order. The
// operation is all-or-nothing: any chunk failure, or cancellation between
// chunks, discards everything fetched so far.
func (a *Aggregator) ElevationForPoints(ctx context.Context, points []geo.Point) ([]Sample, error) {
	if len(points) == 0 {
		return []Sample{}, nil
	}

	results := make([]Sample, 0, len(points))

	for chunk := 0; chunk*MaxPointsPerRequest < len(points); chunk++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := chunk * MaxPointsPerRequest
		end := min(start+MaxPointsPerRequest, len(points))

		samples, err := a.lookup.ElevationForLocations(ctx, points[start:end])
		if err != nil {
			return nil, &ChunkError{Chunk: chunk, Err: err}
		}
		if len(samples) != end-start {
			return nil, &ChunkError{
				Chunk: chunk,
				Err:   fmt.Errorf("expected %d results, got %d", end-start, len(samples)),
			}
		}

		results = append(results, samples...)
	}

	return results, nil
}

// ProfileForPoints builds an elevation profile for a path. Long paths are
// down-sampled to targetSamples points (or the request cap when
// targetSamples is non-positive) before the lookup. The sampled points keep
// the path's first and last point; see samplePoints for the guarantees.
func (a *Aggregator) ProfileForPoints(ctx context.Context, points []geo.Point, targetSamples int) (*Profile, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	target := targetSamples
	if target <= 0 {
		target = MaxPointsPerRequest
	}
	sampled := samplePoints(points, target)

	samples, err := a.ElevationForPoints(ctx, sampled)
	if err != nil {
		return nil, err
	}

	return buildProfile(sampled, samples)
}

// ProfileForEncodedPath decodes an encoded polyline and builds its profile.
// Thin wrapper over ProfileForPoints so the aggregation logic exists once.
func (a *Aggregator) ProfileForEncodedPath(ctx context.Context, encodedPolyline string, targetSamples int) (*Profile, error) {
	points, err := geo.DecodePolyline(encodedPolyline)
	if err != nil {
		return nil, fmt.Errorf("elevation: %w", err)
	}
	return a.ProfileForPoints(ctx, points, targetSamples)
}

// samplePoints decimates a path to at most maxPoints representative points.
// The first and last point are always kept; interior points are taken at
// evenly spaced fractional steps clamped into [1, len-2]. Deterministic, but
// best-effort only: true local extrema are preserved only when the even
// spacing happens to hit them.
func samplePoints(points []geo.Point, maxPoints int) []geo.Point {
	if len(points) <= maxPoints {
		return points
	}

	step := float64(len(points)) / float64(maxPoints)

	sampled := make([]geo.Point, 0, maxPoints)
	sampled = append(sampled, points[0])

	for i := 1; i < maxPoints-1; i++ {
		index := int(float64(i) * step)
		if index < 1 {
			index = 1
		}
		if index > len(points)-2 {
			index = len(points) - 2
		}
		sampled = append(sampled, points[index])
	}

	return append(sampled, points[len(points)-1])
}

// buildProfile zips elevations with cumulative path distances and derives
// the profile statistics.
func buildProfile(sampled []geo.Point, samples []Sample) (*Profile, error) {
	if len(samples) != len(sampled) {
		return nil, fmt.Errorf("elevation: %d results for %d sampled points", len(samples), len(sampled))
	}

	distances := geo.PathDistances(sampled)

	points := make([]Sample, len(samples))
	minElevation := 0.0
	maxElevation := 0.0
	totalAscent := 0.0
	totalDescent := 0.0

	for i, s := range samples {
		s.Distance = distances[i]
		points[i] = s

		if i == 0 {
			minElevation = s.Elevation
			maxElevation = s.Elevation
			continue
		}

		minElevation = math.Min(minElevation, s.Elevation)
		maxElevation = math.Max(maxElevation, s.Elevation)

		delta := s.Elevation - points[i-1].Elevation
		if delta > 0 {
			totalAscent += delta
		} else {
			totalDescent += -delta
		}
	}

	totalDistance := 0.0
	if len(distances) > 0 {
		totalDistance = distances[len(distances)-1]
	}

	return &Profile{
		Points:        points,
		MinElevation:  minElevation,
		MaxElevation:  maxElevation,
		TotalAscent:   totalAscent,
		TotalDescent:  totalDescent,
		TotalDistance: totalDistance,
	}, nil
}
