package form

import "time"

// Record is a team's recency-weighted form as of a given date. One record
// exists per (team, as-of date); recomputation replaces it wholesale.
type Record struct {
	Team           string
	AsOf           time.Time
	Score          float64
	LastFivePoints []int
	GoalsScored    int
	GoalsConceded  int
}

// VenueSplit aggregates a team's results restricted to home or away matches.
type VenueSplit struct {
	Matches          int
	GoalsScoredAvg   float64
	GoalsConcededAvg float64
	WinPct           float64
}
