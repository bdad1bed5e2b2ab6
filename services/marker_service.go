package services

import (
	"sync"

	"tours-server/models"
)

// MaxMarkers caps how many pins get placed on the map surface. A
// longer tour list renders only its first MaxMarkers entries; the rest
// are dropped to keep the surface responsive.
const MaxMarkers = 30

// DefaultMarkerIcon is used when a tour's category has no mapping.
const DefaultMarkerIcon = "map-pin"

// DefaultTourIcons maps tour categories to icon names.
var DefaultTourIcons = map[string]string{
	"museum":     "bank",
	"park":       "tree",
	"viewpoint":  "binoculars",
	"monument":   "flag",
	"food_drink": "restaurant",
	"shopping":   "shopping-bag",
	"walking":    "footsteps",
}

var defaultPin = models.PinLayout{
	RingDiameter: 28,
	DotDiameter:  12,
	StemHeight:   10,
	Shadow:       true,
}

// MarkerRenderer turns tour records into map-surface marker payloads.
// It keeps no selection state; the only thing it remembers is the last
// rendered input, so rendering the identical slice again is free.
type MarkerRenderer struct {
	icons      map[string]string
	themeColor string
	onPress    func(models.Tour)

	mu          sync.Mutex
	lastTours   []models.Tour
	lastMarkers []models.Marker
}

func NewMarkerRenderer(icons map[string]string, themeColor string, onPress func(models.Tour)) *MarkerRenderer {
	return &MarkerRenderer{
		icons:      icons,
		themeColor: themeColor,
		onPress:    onPress,
	}
}

// Render produces at most MaxMarkers markers, in input order. Tours
// past the cap are not considered at all; tours within it that lack a
// coordinate are skipped without error.
func (r *MarkerRenderer) Render(tours []models.Tour) []models.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sameAsLast(tours) {
		return r.lastMarkers
	}

	visible := tours
	if len(visible) > MaxMarkers {
		visible = visible[:MaxMarkers]
	}

	markers := make([]models.Marker, 0, len(visible))
	for _, tour := range visible {
		if !tour.HasCoordinates() {
			continue
		}
		markers = append(markers, models.Marker{
			TourID:    tour.ID,
			Latitude:  *tour.Latitude,
			Longitude: *tour.Longitude,
			// The icon rides along on the payload; the pin visual
			// itself does not draw it. The map surface consumes it.
			Icon:  r.iconFor(tour.Category),
			Color: r.themeColor,
			// Bottom-center of the pin sits on the coordinate.
			Anchor:            models.Anchor{X: 0.5, Y: 1},
			Pin:               defaultPin,
			TracksViewChanges: false,
		})
	}

	r.lastTours = tours
	r.lastMarkers = markers
	return markers
}

// Press invokes the press callback with the full tour record for a
// marker from the last render. Returns false for ids that were not
// rendered (unknown, past the cap, or missing coordinates).
func (r *MarkerRenderer) Press(tourID string) bool {
	r.mu.Lock()
	var pressed *models.Tour
	for _, marker := range r.lastMarkers {
		if marker.TourID != tourID {
			continue
		}
		for i := range r.lastTours {
			if r.lastTours[i].ID == tourID {
				pressed = &r.lastTours[i]
				break
			}
		}
		break
	}
	r.mu.Unlock()

	if pressed == nil {
		return false
	}
	if r.onPress != nil {
		r.onPress(*pressed)
	}
	return true
}

func (r *MarkerRenderer) iconFor(category string) string {
	if icon, ok := r.icons[category]; ok && icon != "" {
		return icon
	}
	return DefaultMarkerIcon
}

// sameAsLast checks slice identity, not contents: the memo only helps
// callers that re-render an unchanged fetch result.
func (r *MarkerRenderer) sameAsLast(tours []models.Tour) bool {
	if len(tours) == 0 || len(r.lastTours) == 0 {
		return false
	}
	return len(tours) == len(r.lastTours) && &tours[0] == &r.lastTours[0]
}
