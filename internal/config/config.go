package config

import (
	"time"

	"github.com/kulturpfad/server/internal/lib/location"
	"github.com/kulturpfad/server/internal/lib/spline"
)

// Config represents the complete server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	GoogleMaps GoogleMapsConfig `yaml:"google_maps"`
	Location   LocationConfig   `yaml:"location"`
	Smoothing  SmoothingConfig  `yaml:"smoothing"`
	Elevation  ElevationConfig  `yaml:"elevation"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CorsOrigins []string `yaml:"cors_origins"`
}

// GoogleMapsConfig holds Google Maps API settings shared by the directions
// and elevation endpoints.
type GoogleMapsConfig struct {
	APIKey          string        `yaml:"api_key"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	StaleThreshold  time.Duration `yaml:"stale_threshold"`
}

// LocationConfig holds GPS validation settings
type LocationConfig struct {
	// One of "navigation", "normal", "battery_saving".
	AccuracyProfile string `yaml:"accuracy_profile"`
}

// SmoothingConfig holds polyline smoothing settings
type SmoothingConfig struct {
	SegmentsPerCurve int `yaml:"segments_per_curve"`
}

// ElevationConfig holds elevation profile settings
type ElevationConfig struct {
	DefaultSamples int `yaml:"default_samples"`
}

// Profile maps the configured accuracy profile name onto the validator's
// profile type. Unknown names fall back to the normal profile.
func (l LocationConfig) Profile() location.AccuracyProfile {
	switch l.AccuracyProfile {
	case "navigation":
		return location.ProfileNavigation
	case "battery_saving":
		return location.ProfileBattery
	default:
		return location.ProfileNormal
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CorsOrigins: []string{"*"},
		},
		GoogleMaps: GoogleMapsConfig{
			RefreshInterval: 5 * time.Minute,
			StaleThreshold:  10 * time.Minute,
		},
		Location: LocationConfig{
			AccuracyProfile: "normal",
		},
		Smoothing: SmoothingConfig{
			SegmentsPerCurve: spline.DefaultSegmentsPerCurve,
		},
		Elevation: ElevationConfig{
			DefaultSamples: 100,
		},
	}
}
