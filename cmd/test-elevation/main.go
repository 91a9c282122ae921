package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/geo"
)

func main() {
	var (
		apiKey   = flag.String("api-key", "", "Google Maps API key (or set GOOGLE_MAPS_API_KEY env var)")
		polyline = flag.String("polyline", "", "Encoded polyline to profile")
		samples  = flag.Int("samples", 100, "Target number of profile samples")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Elevation Profile Test Tool\n\n")
		fmt.Printf("Builds an elevation profile for an encoded polyline using the\n")
		fmt.Printf("Google Elevation API.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -api-key=YOUR_KEY -polyline=\"cn|uHk`ni@rX{O\"\n", os.Args[0])
		return
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("GOOGLE_MAPS_API_KEY")
	}
	if key == "" {
		log.Fatal("Google Maps API key required. Use -api-key flag or GOOGLE_MAPS_API_KEY env var")
	}
	if *polyline == "" {
		log.Fatal("Encoded polyline required. Use -polyline flag")
	}

	points, err := geo.DecodePolyline(*polyline)
	if err != nil {
		log.Fatalf("Polyline decode failed: %v", err)
	}

	fmt.Printf("Elevation Profile Test\n")
	fmt.Printf("======================\n")
	fmt.Printf("Path points: %d\n", len(points))
	fmt.Printf("Path length: %.2f km\n", geo.PathLength(points)/1000.0)
	fmt.Printf("Target samples: %d\n", *samples)
	fmt.Printf("\n")

	client := googlemaps.NewClient(key)
	aggregator := elevation.NewAggregator(client)

	fmt.Printf("Testing ProfileForPoints...\n")
	profile, err := aggregator.ProfileForPoints(context.Background(), points, *samples)
	if err != nil {
		log.Fatalf("ProfileForPoints failed: %v", err)
	}

	fmt.Printf("✅ Profile built!\n")
	fmt.Printf("Samples: %d\n", len(profile.Points))
	fmt.Printf("Elevation: %.1fm - %.1fm (range %.1fm)\n",
		profile.MinElevation, profile.MaxElevation, profile.ElevationRange())
	fmt.Printf("Ascent: %.1fm\n", profile.TotalAscent)
	fmt.Printf("Descent: %.1fm\n", profile.TotalDescent)
	fmt.Printf("Distance: %.2f km\n", profile.TotalDistance/1000.0)

	grades := profile.GradeStats()
	fmt.Printf("Mean grade: %.1f%%\n", grades.MeanGrade)
	fmt.Printf("Max grade: %.1f%% / min %.1f%%\n", grades.MaxGrade, grades.MinGrade)
	fmt.Printf("P90 |grade|: %.1f%%\n", grades.P90AbsGrade)
}
