package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ageNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func TestAge_ExactBirthdayToday(t *testing.T) {
	assert.Equal(t, 25, Age("2001-08-31", ageNow))
}

func TestAge_BirthdayTomorrow(t *testing.T) {
	// One day short of the 25th birthday still counts as 24.
	assert.Equal(t, 24, Age("2001-09-01", ageNow))
}

func TestAge_BirthdayLaterThisYear(t *testing.T) {
	assert.Equal(t, 29, Age("1996-12-01", ageNow))
}

func TestAge_ClampsLowerBound(t *testing.T) {
	assert.Equal(t, 18, Age("2020-01-01", ageNow))
}

func TestAge_ClampsUpperBound(t *testing.T) {
	assert.Equal(t, 100, Age("1900-01-01", ageNow))
}

func TestAge_MalformedDateClampsLow(t *testing.T) {
	assert.Equal(t, 18, Age("not-a-date", ageNow))
	assert.Equal(t, 18, Age("", ageNow))
}
