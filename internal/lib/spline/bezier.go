// Package spline densifies polylines with locally fitted cubic Bezier
// segments so routes render as smooth curves instead of angular chains.
// The output is for display only; distance and elevation math always run
// on the original points.
package spline

import (
	"github.com/kulturpfad/server/internal/lib/geo"
)

// DefaultSegmentsPerCurve is the interpolation density used when the caller
// passes a non-positive segment count.
const DefaultSegmentsPerCurve = 10

// tension weights the control-point offsets; 0.5 matches a Catmull-Rom
// spline through the input points.
const tension = 0.5

// Smooth interpolates a polyline through cubic Bezier curves whose control
// points are derived from neighboring points. Inputs with fewer than three
// points are returned unchanged. For n input points the result has exactly
// 1 + (n-1)*segmentsPerCurve points; the original points are preserved at
// segment boundaries.
func Smooth(points []geo.Point, segmentsPerCurve int) []geo.Point {
	if len(points) < 3 {
		return points
	}
	if segmentsPerCurve <= 0 {
		segmentsPerCurve = DefaultSegmentsPerCurve
	}

	smoothed := make([]geo.Point, 0, 1+(len(points)-1)*segmentsPerCurve)
	smoothed = append(smoothed, points[0])

	for i := 0; i < len(points)-1; i++ {
		p0 := points[i]
		if i > 0 {
			p0 = points[i-1]
		}
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[i+1]
		if i < len(points)-2 {
			p3 = points[i+2]
		}

		cp1, cp2 := controlPoints(p0, p1, p2, p3)

		curve := interpolateCubicBezier(p1, cp1, cp2, p2, segmentsPerCurve)

		// The first interpolated point duplicates the previous segment's
		// last point; skip it.
		smoothed = append(smoothed, curve[1:]...)
	}

	return smoothed
}

// controlPoints derives the two Bezier control points for the span p1..p2
// from its neighbors using chord-length weighting, so curvature follows the
// local point spacing.
func controlPoints(p0, p1, p2, p3 geo.Point) (geo.Point, geo.Point) {
	d1 := geo.Distance(p0, p1)
	d2 := geo.Distance(p1, p2)
	d3 := geo.Distance(p2, p3)

	// All four points coincide; there is no direction to derive.
	if d1+d2+d3 == 0 {
		return p1, p2
	}

	t1 := 0.5
	if d1+d2 > 0 {
		t1 = d2 / (d1 + d2)
	}
	t2 := 0.5
	if d2+d3 > 0 {
		t2 = d2 / (d2 + d3)
	}

	var dir1Lat, dir1Lng float64
	if d1+d2 > 0 {
		dir1Lat = (p2.Latitude - p0.Latitude) * t1 * tension
		dir1Lng = (p2.Longitude - p0.Longitude) * t1 * tension
	}

	var dir2Lat, dir2Lng float64
	if d2+d3 > 0 {
		dir2Lat = (p3.Latitude - p1.Latitude) * t2 * tension
		dir2Lng = (p3.Longitude - p1.Longitude) * t2 * tension
	}

	cp1 := geo.Point{
		Latitude:  p1.Latitude + dir1Lat/3,
		Longitude: p1.Longitude + dir1Lng/3,
	}
	cp2 := geo.Point{
		Latitude:  p2.Latitude - dir2Lat/3,
		Longitude: p2.Longitude - dir2Lng/3,
	}

	return cp1, cp2
}

// interpolateCubicBezier evaluates B(t) = (1-t)^3*p0 + 3(1-t)^2*t*cp1 +
// 3(1-t)*t^2*cp2 + t^3*p3 at segments+1 evenly spaced t values. Latitude and
// longitude are treated as independent scalars; at the spans involved the
// spherical error is far below the polyline encoding precision.
func interpolateCubicBezier(p0, cp1, cp2, p3 geo.Point, segments int) []geo.Point {
	points := make([]geo.Point, 0, segments+1)

	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t

		uu := u * u
		tt := t * t
		uuu := uu * u
		ttt := tt * t

		points = append(points, geo.Point{
			Latitude: uuu*p0.Latitude +
				3*uu*t*cp1.Latitude +
				3*u*tt*cp2.Latitude +
				ttt*p3.Latitude,
			Longitude: uuu*p0.Longitude +
				3*uu*t*cp1.Longitude +
				3*u*tt*cp2.Longitude +
				ttt*p3.Longitude,
		})
	}

	return points
}
