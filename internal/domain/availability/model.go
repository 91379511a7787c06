package availability

import (
	"strings"
	"time"
)

const (
	StatusInjured   = "injured"
	StatusSuspended = "suspended"
	StatusDoubtful  = "doubtful"
)

// Record tracks one player's unavailability window.
type Record struct {
	ID             int64
	PlayerName     string
	Team           string
	Status         string
	Reason         string
	StartDate      time.Time
	ExpectedReturn *time.Time
	ImpactLevel    int
	IsKeyPlayer    bool
}

// CoversDate reports whether the player is unavailable on the given date.
// The window is a closed interval: a player returning on day D is still out
// on D and available the day after.
func (r Record) CoversDate(date time.Time) bool {
	day := date.UTC().Truncate(24 * time.Hour)
	start := r.StartDate.UTC().Truncate(24 * time.Hour)
	if day.Before(start) {
		return false
	}
	if r.ExpectedReturn == nil {
		return true
	}
	ret := r.ExpectedReturn.UTC().Truncate(24 * time.Hour)
	return !day.After(ret)
}

func ValidStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusInjured, StatusSuspended, StatusDoubtful:
		return true
	default:
		return false
	}
}
