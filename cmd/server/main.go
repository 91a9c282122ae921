package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/kulturpfad/server/internal/cache"
	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/config"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/location"
	"github.com/kulturpfad/server/internal/services"
)

func main() {
	appConfig := loadConfig()

	if appConfig.GoogleMaps.APIKey == "" {
		log.Printf("Warning: no Google Maps API key configured; route and elevation requests will fail")
	}

	cacheInstance := cache.NewCache()

	mapsClient := googlemaps.NewClient(appConfig.GoogleMaps.APIKey)
	aggregator := elevation.NewAggregator(mapsClient)
	validator := location.NewValidator()

	directionsService := services.NewDirectionsService(mapsClient, aggregator, cacheInstance, appConfig)

	h := &handlers{
		directions: directionsService,
		validator:  validator,
		config:     appConfig,
	}

	log.Printf("Route API server starting")
	log.Printf("Accuracy profile: %s", appConfig.Location.Profile())

	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/route", h.handleRoute),
		prefab.WithHTTPHandlerFunc("/api/v1/route/kml", h.handleRouteKML),
		prefab.WithHTTPHandlerFunc("/api/v1/elevation/profile", h.handleElevationProfile),
		prefab.WithHTTPHandlerFunc("/api/v1/location/validate", h.handleValidateLocation),
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system.
// Configuration is loaded from prefab.yaml and environment variables with
// PF__ prefix; missing sections keep their defaults.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("googlemaps", &appConfig.GoogleMaps); err != nil {
		log.Fatalf("Failed to unmarshal googlemaps section: %v", err)
	}
	if err := prefab.Config.Unmarshal("location", &appConfig.Location); err != nil {
		log.Fatalf("Failed to unmarshal location section: %v", err)
	}
	if err := prefab.Config.Unmarshal("smoothing", &appConfig.Smoothing); err != nil {
		log.Fatalf("Failed to unmarshal smoothing section: %v", err)
	}
	if err := prefab.Config.Unmarshal("elevation", &appConfig.Elevation); err != nil {
		log.Fatalf("Failed to unmarshal elevation section: %v", err)
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>kulturpfad route server</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">kulturpfad route server</span>

Route geometry and location quality API for the Kulturpfad heritage
trail apps.

<span class="header">API Endpoints:</span>

  POST /api/v1/route               - Fetch a route, optionally smoothed
                                     and elevation-enriched
  GET  /api/v1/route/kml           - Export a route path as KML
  POST /api/v1/elevation/profile   - Elevation profile for an encoded path
  POST /api/v1/location/validate   - Validate a raw GPS fix

<span class="header">Data Sources:</span>
  • Google Directions API  - Route geometry and timing
  • Google Elevation API   - Terrain elevations

<span class="header">Example Usage:</span>
  curl -X POST /api/v1/route -d '{"origin":{"lat":50.9413,"lng":6.9583},
    "destination":{"lat":50.8885,"lng":7.0192},"mode":"walking"}'
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
