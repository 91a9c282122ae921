// Package export renders route geometry as KML for use in external map
// viewers.
package export

import (
	"fmt"
	"io"

	"github.com/twpayne/go-kml/v2"

	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
)

// WriteRoute writes a route path as a KML document with a single tessellated
// LineString placemark.
func WriteRoute(w io.Writer, name, description string, path []geo.Point) error {
	if len(path) == 0 {
		return fmt.Errorf("export: empty path")
	}

	coords := make([]kml.Coordinate, len(path))
	for i, p := range path {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Placemark(
				kml.Name(name),
				kml.Description(description),
				kml.LineString(
					kml.Tessellate(true),
					kml.Coordinates(coords...),
				),
			),
		),
	)

	return doc.WriteIndent(w, "", "  ")
}

// WriteProfile writes an elevation profile as a KML LineString with absolute
// altitudes, so the vertical shape of the path is visible in 3D viewers.
func WriteProfile(w io.Writer, name string, profile *elevation.Profile) error {
	if profile == nil || len(profile.Points) == 0 {
		return fmt.Errorf("export: empty profile")
	}

	coords := make([]kml.Coordinate, len(profile.Points))
	for i, s := range profile.Points {
		coords[i] = kml.Coordinate{
			Lon: s.Location.Longitude,
			Lat: s.Location.Latitude,
			Alt: s.Elevation,
		}
	}

	description := fmt.Sprintf("Ascent %.1fm, descent %.1fm over %.0fm",
		profile.TotalAscent, profile.TotalDescent, profile.TotalDistance)

	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Placemark(
				kml.Name(name),
				kml.Description(description),
				kml.LineString(
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords...),
				),
			),
		),
	)

	return doc.WriteIndent(w, "", "  ")
}
