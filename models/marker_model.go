package models

// Marker is the visual payload handed to the map surface for one tour.
// TracksViewChanges is always false: the surface paints the marker once
// and never re-diffs it, so appearance is fixed until a full remount.
type Marker struct {
	TourID            string    `json:"tour_id"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Icon              string    `json:"icon"`
	Color             string    `json:"color"`
	Anchor            Anchor    `json:"anchor"`
	Pin               PinLayout `json:"pin"`
	TracksViewChanges bool      `json:"tracks_view_changes"`
}

// Anchor is the fraction of the marker image pinned to the coordinate.
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PinLayout describes the fixed pin visual: an outer ring around a
// colored dot, a stem down to the anchor point, and a soft shadow.
type PinLayout struct {
	RingDiameter int  `json:"ring_diameter"`
	DotDiameter  int  `json:"dot_diameter"`
	StemHeight   int  `json:"stem_height"`
	Shadow       bool `json:"shadow"`
}
