package utils

import "time"

const (
	minDisplayAge = 18
	maxDisplayAge = 100
)

// Age derives a display age from a YYYY-MM-DD birth date at the given time.
// The result is clamped to [18, 100]; malformed dates clamp to the lower
// bound rather than failing.
func Age(dob string, now time.Time) int {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return minDisplayAge
	}

	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}

	if years < minDisplayAge {
		return minDisplayAge
	}
	if years > maxDisplayAge {
		return maxDisplayAge
	}
	return years
}
