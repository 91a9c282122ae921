package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/lib/geo"
)

func main() {
	var (
		apiKey    = flag.String("api-key", "", "Google Maps API key (or set GOOGLE_MAPS_API_KEY env var)")
		originStr = flag.String("origin", "50.941300,6.958300", "Origin coordinates (lat,lng)")
		destStr   = flag.String("dest", "50.888500,7.019200", "Destination coordinates (lat,lng)")
		modeStr   = flag.String("mode", "walking", "Travel mode (walking or driving)")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Google Directions API Test Tool\n\n")
		fmt.Printf("Tests the Google Maps directions client implementation.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -api-key=YOUR_KEY\n", os.Args[0])
		fmt.Printf("  %s -origin=\"50.9413,6.9583\" -dest=\"50.7374,7.0982\" -mode=driving\n", os.Args[0])
		fmt.Printf("  GOOGLE_MAPS_API_KEY=your_key %s\n", os.Args[0])
		return
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("GOOGLE_MAPS_API_KEY")
	}
	if key == "" {
		log.Fatal("Google Maps API key required. Use -api-key flag or GOOGLE_MAPS_API_KEY env var")
	}

	var originLat, originLng, destLat, destLng float64
	if _, err := fmt.Sscanf(*originStr, "%f,%f", &originLat, &originLng); err != nil {
		log.Fatalf("Invalid origin coordinates: %v", err)
	}
	if _, err := fmt.Sscanf(*destStr, "%f,%f", &destLat, &destLng); err != nil {
		log.Fatalf("Invalid destination coordinates: %v", err)
	}

	mode, err := googlemaps.ParseTravelMode(*modeStr)
	if err != nil {
		log.Fatalf("Invalid travel mode: %v", err)
	}

	fmt.Printf("Google Directions API Test\n")
	fmt.Printf("==========================\n")
	fmt.Printf("Origin: %.6f, %.6f\n", originLat, originLng)
	fmt.Printf("Destination: %.6f, %.6f\n", destLat, destLng)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("\n")

	client := googlemaps.NewClient(key)

	origin := geo.Point{Latitude: originLat, Longitude: originLng}
	destination := geo.Point{Latitude: destLat, Longitude: destLng}

	fmt.Printf("Testing Directions...\n")
	route, err := client.Directions(context.Background(), origin, destination, nil, mode)
	if err != nil {
		log.Fatalf("Directions failed: %v", err)
	}

	fmt.Printf("✅ Directions successful!\n")
	fmt.Printf("Summary: %s\n", route.Summary)
	fmt.Printf("Distance: %.2f km\n", float64(route.TotalDistanceMeters())/1000.0)
	fmt.Printf("Duration: %.1f minutes\n", float64(route.TotalDurationSeconds())/60.0)

	encoded := route.OverviewPolyline.Points
	fmt.Printf("Polyline: %s...\n", encoded[:min(len(encoded), 50)])

	points, err := geo.DecodePolyline(encoded)
	if err != nil {
		log.Fatalf("Polyline decode failed: %v", err)
	}
	fmt.Printf("Decoded points: %d\n", len(points))
	fmt.Printf("Path length: %.2f km\n", geo.PathLength(points)/1000.0)
}
