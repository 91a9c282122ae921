package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kulturpfad/server/internal/clients/googlemaps"
	"github.com/kulturpfad/server/internal/config"
	"github.com/kulturpfad/server/internal/lib/elevation"
	"github.com/kulturpfad/server/internal/lib/export"
	"github.com/kulturpfad/server/internal/lib/geo"
	"github.com/kulturpfad/server/internal/lib/location"
	"github.com/kulturpfad/server/internal/services"
)

type handlers struct {
	directions *services.DirectionsService
	validator  *location.Validator
	config     *config.Config
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	var statusErr *googlemaps.StatusError
	switch {
	case errors.Is(err, googlemaps.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type routeRequestBody struct {
	Origin           geo.Point   `json:"origin"`
	Destination      geo.Point   `json:"destination"`
	Waypoints        []geo.Point `json:"waypoints"`
	Mode             string      `json:"mode"`
	IncludeElevation bool        `json:"include_elevation"`
	SmoothPath       bool        `json:"smooth_path"`
}

// handleRoute fetches a route between two points.
func (h *handlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var body routeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	mode, err := googlemaps.ParseTravelMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.directions.GetRoute(r.Context(), services.RouteRequest{
		Origin:           body.Origin,
		Destination:      body.Destination,
		Waypoints:        body.Waypoints,
		Mode:             mode,
		IncludeElevation: body.IncludeElevation,
		SmoothPath:       body.SmoothPath,
	})
	if err != nil {
		log.Printf("Route request failed: %v", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRouteKML exports a route path as a KML document. The path is passed
// as an encoded polyline query parameter so exports are shareable links.
func (h *handlers) handleRouteKML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	encoded := r.URL.Query().Get("polyline")
	if encoded == "" {
		writeError(w, http.StatusBadRequest, "polyline query parameter required")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Route"
	}

	points, err := geo.DecodePolyline(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid polyline: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="route.kml"`)
	if err := export.WriteRoute(w, name, "", points); err != nil {
		log.Printf("KML export failed: %v", err)
	}
}

type profileRequestBody struct {
	Polyline string `json:"polyline"`
	Samples  int    `json:"samples"`
}

type profileResponse struct {
	Profile *elevation.Profile   `json:"profile"`
	Grades  elevation.GradeStats `json:"grades"`
}

// handleElevationProfile builds an elevation profile for an encoded path.
func (h *handlers) handleElevationProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var body profileRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if body.Polyline == "" {
		writeError(w, http.StatusBadRequest, "polyline required")
		return
	}

	profile, err := h.directions.ElevationProfile(r.Context(), body.Polyline, body.Samples)
	if err != nil {
		if errors.Is(err, elevation.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Elevation profile request failed: %v", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Profile: profile,
		Grades:  profile.GradeStats(),
	})
}

type validateRequestBody struct {
	Current  location.Sample  `json:"current"`
	Previous *location.Sample `json:"previous"`
	Profile  string           `json:"profile"`
}

type validateResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	Quality  string `json:"quality"`
}

// handleValidateLocation runs a raw GPS fix through the validation gates.
func (h *handlers) handleValidateLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var body validateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	profile := h.config.Location.Profile()
	if body.Profile != "" {
		profile = config.LocationConfig{AccuracyProfile: body.Profile}.Profile()
	}

	verdict := h.validator.Validate(body.Current, body.Previous, profile)

	writeJSON(w, http.StatusOK, validateResponse{
		Accepted: verdict.Accepted,
		Reason:   verdict.Reason.String(),
		Quality:  verdict.Quality.String(),
	})
}
