package headtohead

import "time"

// Result codes match the persisted last_5_matches encoding.
const (
	ResultTeamAWin = "1"
	ResultDraw     = "D"
	ResultTeamBWin = "2"
)

// Record holds pairwise historical outcome statistics. TeamA/TeamB follow
// the canonical (lexicographic) pair order; use Mirrored to read the record
// from the other side's perspective.
type Record struct {
	TeamA           string
	TeamB           string
	LastFiveResults []string
	TeamAGoalsAvg   float64
	TeamBGoalsAvg   float64
	TeamAWins       int
	TeamBWins       int
	Draws           int
	UpdatedAt       time.Time
}

// CanonicalPair orders two team names; swapped reports whether the input
// order was reversed to reach canonical order.
func CanonicalPair(teamA, teamB string) (first, second string, swapped bool) {
	if teamA <= teamB {
		return teamA, teamB, false
	}
	return teamB, teamA, true
}

// Mirrored returns the same statistics seen from the opposite side.
func (r Record) Mirrored() Record {
	results := make([]string, len(r.LastFiveResults))
	for i, res := range r.LastFiveResults {
		switch res {
		case ResultTeamAWin:
			results[i] = ResultTeamBWin
		case ResultTeamBWin:
			results[i] = ResultTeamAWin
		default:
			results[i] = res
		}
	}

	return Record{
		TeamA:           r.TeamB,
		TeamB:           r.TeamA,
		LastFiveResults: results,
		TeamAGoalsAvg:   r.TeamBGoalsAvg,
		TeamBGoalsAvg:   r.TeamAGoalsAvg,
		TeamAWins:       r.TeamBWins,
		TeamBWins:       r.TeamAWins,
		Draws:           r.Draws,
		UpdatedAt:       r.UpdatedAt,
	}
}
