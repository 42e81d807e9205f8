package models

import "time"

// SavedEntry is a persisted passport item. IDs are minted when the entry is
// saved (monotonic token), never reused from a PlaceCandidate.
type SavedEntry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Info       string    `json:"info"`
	Category   Category  `json:"category"`
	DistanceKm float64   `json:"distance_km,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	ToDiscover bool      `json:"to_discover"`
	Image      string    `json:"image,omitempty"`
}

// SavedStateFlag is the derived saved/not-saved state of a place candidate
// against the current passport. It is computed on demand, never stored.
type SavedStateFlag struct {
	IsSaved        bool   `json:"is_saved"`
	MatchedEntryID string `json:"matched_entry_id,omitempty"`
}
