package postgres

import "time"

type formTableModel struct {
	Team          string    `db:"team"`
	Date          time.Time `db:"date"`
	Form          float64   `db:"form"`
	LastFive      []byte    `db:"last_5_matches"`
	GoalsScored   int       `db:"goals_scored"`
	GoalsConceded int       `db:"goals_conceded"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type formInsertModel struct {
	Team          string    `db:"team"`
	Date          time.Time `db:"date"`
	Form          float64   `db:"form"`
	LastFive      []byte    `db:"last_5_matches"`
	GoalsScored   int       `db:"goals_scored"`
	GoalsConceded int       `db:"goals_conceded"`
}
