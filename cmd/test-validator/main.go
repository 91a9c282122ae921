package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kulturpfad/server/internal/lib/geo"
	"github.com/kulturpfad/server/internal/lib/location"
)

func main() {
	var (
		lat        = flag.Float64("lat", 50.9413, "Latitude of the fix")
		lng        = flag.Float64("lng", 6.9583, "Longitude of the fix")
		accuracy   = flag.Float64("accuracy", 10, "Reported accuracy in meters")
		speed      = flag.Float64("speed", 1.4, "Reported speed in m/s")
		bearing    = flag.Float64("bearing", -1, "Reported bearing in degrees (-1 = none)")
		ageMillis  = flag.Int64("age", 0, "Age of the fix in milliseconds")
		profileStr = flag.String("profile", "normal", "Accuracy profile (navigation, normal, battery_saving)")
		prevLat    = flag.Float64("prev-lat", 0, "Latitude of the previous accepted fix (0 = none)")
		prevLng    = flag.Float64("prev-lng", 0, "Longitude of the previous accepted fix")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("GPS Fix Validation Test Tool\n\n")
		fmt.Printf("Runs a synthetic GPS fix through the validation gates and prints\n")
		fmt.Printf("the verdict.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -accuracy=25\n", os.Args[0])
		fmt.Printf("  %s -lat=50.9201 -lng=6.9799 -prev-lat=50.9413 -prev-lng=6.9583\n", os.Args[0])
		return
	}

	now := time.Now().UnixMilli()

	current := location.Sample{
		Point:     geo.Point{Latitude: *lat, Longitude: *lng},
		Accuracy:  float32(*accuracy),
		Speed:     float32(*speed),
		Timestamp: now - *ageMillis,
	}
	if *bearing >= 0 {
		current.Bearing = float32(*bearing)
		current.HasBearing = true
	}

	var previous *location.Sample
	if *prevLat != 0 || *prevLng != 0 {
		previous = &location.Sample{
			Point:     geo.Point{Latitude: *prevLat, Longitude: *prevLng},
			Accuracy:  10,
			Timestamp: now - *ageMillis - 1000,
		}
	}

	var profile location.AccuracyProfile
	switch *profileStr {
	case "navigation":
		profile = location.ProfileNavigation
	case "battery_saving":
		profile = location.ProfileBattery
	default:
		profile = location.ProfileNormal
	}

	fmt.Printf("GPS Fix Validation Test\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Fix: %.6f, %.6f (±%.0fm)\n", *lat, *lng, *accuracy)
	fmt.Printf("Profile: %s (gate %.0fm)\n", profile, profile.MaxAccuracy())
	if previous != nil {
		distance := geo.Distance(previous.Point, current.Point)
		fmt.Printf("Previous fix: %.6f, %.6f (%.1fm away)\n", *prevLat, *prevLng, distance)
	} else {
		fmt.Printf("Previous fix: none\n")
	}
	fmt.Printf("\n")

	validator := location.NewValidator()
	verdict := validator.Validate(current, previous, profile)

	if verdict.Accepted {
		fmt.Printf("✅ ACCEPTED\n")
	} else {
		fmt.Printf("❌ REJECTED: %s\n", verdict.Reason)
	}
	fmt.Printf("Signal quality: %s\n", verdict.Quality)
}
