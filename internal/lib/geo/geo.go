package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusMeters is the mean Earth radius used by all spherical math here.
const EarthRadiusMeters = 6371000.0

// Distance calculates great-circle distance between two points in meters
// using the Haversine formula.
func Distance(p1, p2 Point) float64 {
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Bearing calculates the initial compass bearing in degrees from one point
// toward another. The result is normalized to [0, 360).
func Bearing(from, to Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lon1 := from.Longitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	lon2 := to.Longitude * math.Pi / 180

	y := math.Sin(lon2-lon1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// Destination projects a point forward along a compass bearing for the given
// distance (spherical approximation). Used to predict an expected next
// position from a previous fix.
func Destination(origin Point, bearingDegrees, distanceMeters float64) Point {
	lat1 := origin.Latitude * math.Pi / 180
	lon1 := origin.Longitude * math.Pi / 180
	bearing := bearingDegrees * math.Pi / 180
	angular := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(
		math.Sin(lat1)*math.Cos(angular) +
			math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))

	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Latitude:  lat2 * 180 / math.Pi,
		Longitude: lon2 * 180 / math.Pi,
	}
}

// PathDistances computes the cumulative distance along a point sequence.
// The result is index-aligned with the input; index 0 is always 0.
func PathDistances(points []Point) []float64 {
	distances := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		distances[i] = distances[i-1] + Distance(points[i-1], points[i])
	}
	return distances
}

// PathLength returns the total distance along a point sequence in meters.
func PathLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// DecodePolyline decodes a Google encoded polyline string to a point sequence.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// EncodePolyline encodes a point sequence with Google's polyline algorithm.
// Inverse of DecodePolyline up to the encoding's 1e-5 degree precision.
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
