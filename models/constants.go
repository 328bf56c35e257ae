package models

// ✅ Swipe Kinds (like, pass, superlike)
const (
	SwipeKindLike      = "like"
	SwipeKindPass      = "pass"
	SwipeKindSuperlike = "superlike"
)

// ✅ Match Statuses
const (
	MatchStatusActive = "active"
)

// Defaults applied when the current user carries no match preferences.
const (
	DefaultAgeMin     = 18
	DefaultAgeMax     = 99
	DefaultDistanceKm = 100.0
)

// Deck tuning.
const (
	DefaultPageSize     = 25
	DefaultHistoryLimit = 50
)

// Display age bounds, a defensive clamp against malformed birth dates.
const (
	MinDisplayAge = 18
	MaxDisplayAge = 100
)
