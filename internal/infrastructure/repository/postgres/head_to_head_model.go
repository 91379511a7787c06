package postgres

import "time"

type headToHeadTableModel struct {
	Team1         string    `db:"team1"`
	Team2         string    `db:"team2"`
	LastFive      string    `db:"last_5_matches"`
	Team1GoalsAvg float64   `db:"team1_goals_avg"`
	Team2GoalsAvg float64   `db:"team2_goals_avg"`
	Team1Wins     int       `db:"team1_wins"`
	Team2Wins     int       `db:"team2_wins"`
	Draws         int       `db:"draws"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type headToHeadInsertModel struct {
	Team1         string  `db:"team1"`
	Team2         string  `db:"team2"`
	LastFive      string  `db:"last_5_matches"`
	Team1GoalsAvg float64 `db:"team1_goals_avg"`
	Team2GoalsAvg float64 `db:"team2_goals_avg"`
	Team1Wins     int     `db:"team1_wins"`
	Team2Wins     int     `db:"team2_wins"`
	Draws         int     `db:"draws"`
}
