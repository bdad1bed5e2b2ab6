package models

// Tour is a point-of-interest record shown on the tours map. Latitude
// and Longitude are pointers because upstream rows may carry null
// coordinates; a tour missing either is never rendered.
type Tour struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Category    string   `json:"category" bson:"category"`
	Latitude    *float64 `json:"latitude" bson:"latitude"`
	Longitude   *float64 `json:"longitude" bson:"longitude"`
	Tags        []string `json:"tags" bson:"tags"`
	Address     string   `json:"address" bson:"address"`
}

// HasCoordinates reports whether the tour can be placed on the map.
func (t Tour) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}
