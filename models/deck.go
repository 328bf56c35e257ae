package models

import "time"

// SwipeDeck is the ephemeral, in-memory candidate queue for one session.
// It is never persisted; it is rebuilt on every screen mount.
type SwipeDeck struct {
	UserID      string    `json:"userId"`
	Candidates  []Profile `json:"candidates"`
	LastFetched time.Time `json:"lastFetched"`
	HasMore     bool      `json:"hasMore"`
}

// DisplayCandidate is the display-ready shape handed to the presentation layer.
// Age and distance are derived at read time, never stored.
type DisplayCandidate struct {
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Bio           string   `json:"bio,omitempty"`
	PrimaryPhoto  string   `json:"primaryPhoto,omitempty"`
	Photos        []string `json:"photos,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	City          string   `json:"city,omitempty"`
	Country       string   `json:"country,omitempty"`
	DistanceKm    float64  `json:"distanceKm"`
	Compatibility *int     `json:"compatibility,omitempty"`
}
