package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tours-server/middleware"
	"tours-server/models"
	"tours-server/services"
	"tours-server/utils/errors"
)

// TourSource supplies the tour lists the renderer consumes.
type TourSource interface {
	ListTours(ctx context.Context) ([]models.Tour, error)
	FindNearbyTours(ctx context.Context, lat, lon, radius float64, category string) ([]models.Tour, error)
}

type MarkerHandler struct {
	tours    TourSource
	renderer *services.MarkerRenderer
}

type MarkersResponse struct {
	Markers []models.Marker `json:"markers"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
}

func NewMarkerHandler(tours TourSource, renderer *services.MarkerRenderer) *MarkerHandler {
	return &MarkerHandler{tours: tours, renderer: renderer}
}

// GetMarkers renders marker payloads for the requested tours. With
// lat/lon present it serves a nearby query; otherwise the full list in
// stored order. Total reports how many tours matched before the
// renderer's cap and coordinate filter.
func (h *MarkerHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var tours []models.Tour
	var err error
	if query.Get("lat") != "" || query.Get("lon") != "" {
		lat, parseErr := strconv.ParseFloat(query.Get("lat"), 64)
		if parseErr != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		lon, parseErr := strconv.ParseFloat(query.Get("lon"), 64)
		if parseErr != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		radius, parseErr := strconv.ParseFloat(query.Get("radius"), 64)
		if parseErr != nil || radius <= 0 {
			radius = 5 // Default radius in km
		}
		tours, err = h.tours.FindNearbyTours(r.Context(), lat, lon, radius, query.Get("category"))
	} else {
		tours, err = h.tours.ListTours(r.Context())
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	markers := h.renderer.Render(tours)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MarkersResponse{
		Markers: markers,
		Count:   len(markers),
		Total:   len(tours),
	})
}

// PressMarker dispatches a press on a rendered marker to the
// configured callback. Ids that were never rendered are a 404.
func (h *MarkerHandler) PressMarker(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["id"]
	if tourID == "" {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if !h.renderer.Press(tourID) {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "tour_id": tourID})
}
