package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kulturpfad/server/internal/lib/export"
	"github.com/kulturpfad/server/internal/lib/geo"
	"github.com/kulturpfad/server/internal/lib/spline"
)

func main() {
	var (
		polyline = flag.String("polyline", "", "Encoded polyline to smooth")
		segments = flag.Int("segments", spline.DefaultSegmentsPerCurve, "Interpolated segments per curve")
		kmlOut   = flag.String("kml", "", "Write the smoothed path as KML to this file")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Polyline Smoothing Test Tool\n\n")
		fmt.Printf("Smooths an encoded polyline with a Bezier spline and prints the\n")
		fmt.Printf("result, optionally exporting it as KML.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -polyline=\"cn|uHk`ni@rX{Oz^w[\"\n", os.Args[0])
		fmt.Printf("  %s -polyline=\"cn|uHk`ni@rX{Oz^w[\" -segments=20 -kml=smoothed.kml\n", os.Args[0])
		return
	}

	if *polyline == "" {
		log.Fatal("Encoded polyline required. Use -polyline flag")
	}

	points, err := geo.DecodePolyline(*polyline)
	if err != nil {
		log.Fatalf("Polyline decode failed: %v", err)
	}

	fmt.Printf("Polyline Smoothing Test\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Input points: %d\n", len(points))
	fmt.Printf("Input length: %.2f km\n", geo.PathLength(points)/1000.0)
	fmt.Printf("Segments per curve: %d\n", *segments)
	fmt.Printf("\n")

	smoothed := spline.Smooth(points, *segments)

	fmt.Printf("✅ Smoothed!\n")
	fmt.Printf("Output points: %d\n", len(smoothed))
	fmt.Printf("Output length: %.2f km\n", geo.PathLength(smoothed)/1000.0)
	fmt.Printf("Re-encoded: %s...\n", truncate(geo.EncodePolyline(smoothed), 60))

	if *kmlOut != "" {
		f, err := os.Create(*kmlOut)
		if err != nil {
			log.Fatalf("Failed to create KML file: %v", err)
		}
		defer f.Close()

		if err := export.WriteRoute(f, "Smoothed path", "", smoothed); err != nil {
			log.Fatalf("KML export failed: %v", err)
		}
		fmt.Printf("KML written to %s\n", *kmlOut)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
