package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "NS"
	StatusFinished  = "FT"
	StatusPostponed = "PST"
	StatusCancelled = "CANC"
)

// Match is one historical or upcoming fixture. Identity follows the external
// fixture id when present, otherwise the synthetic row id.
type Match struct {
	ID        int64
	FixtureID *int64
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Round     string
	Season    int
	Status    string
	Stadium   string
}

// Played reports whether the match has a final score recorded.
func (m Match) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// PointsFor returns the league points the given team took from this match.
// The second result is false when the team did not play or no score exists.
func (m Match) PointsFor(team string) (int, bool) {
	if !m.Played() {
		return 0, false
	}
	switch team {
	case m.HomeTeam:
		switch {
		case *m.HomeScore > *m.AwayScore:
			return 3, true
		case *m.HomeScore == *m.AwayScore:
			return 1, true
		default:
			return 0, true
		}
	case m.AwayTeam:
		switch {
		case *m.AwayScore > *m.HomeScore:
			return 3, true
		case *m.HomeScore == *m.AwayScore:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// GoalsFor returns goals scored and conceded from the given team's
// perspective.
func (m Match) GoalsFor(team string) (scored, conceded int, ok bool) {
	if !m.Played() {
		return 0, 0, false
	}
	switch team {
	case m.HomeTeam:
		return *m.HomeScore, *m.AwayScore, true
	case m.AwayTeam:
		return *m.AwayScore, *m.HomeScore, true
	default:
		return 0, 0, false
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "AET", "PEN":
		return true
	default:
		return false
	}
}
