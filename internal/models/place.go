package models

// Category is the discovery class a place belongs to.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryFood       Category = "food"
	// CategoryLandmark is used for passport entries saved from a camera scan;
	// it never appears on discovery results.
	CategoryLandmark Category = "landmark"
)

// PlaceCandidate is a single nearby place returned by the discovery backend.
// Type carries the source kind ("museum", "Restaurant", ...); Category is set
// client-side from the endpoint the candidate came from. Candidates are
// immutable once returned.
type PlaceCandidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	Address        string   `json:"address"`
	DistanceKm     float64  `json:"distance_km"`
	WalkingMinutes float64  `json:"walking_time_min"`
	Description    string   `json:"description"`
	Website        string   `json:"website"`
	OpeningHours   string   `json:"opening_hours"`
	Category       Category `json:"-"`
}

// Coordinate returns the candidate's position.
func (p PlaceCandidate) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lon: p.Lon}
}
