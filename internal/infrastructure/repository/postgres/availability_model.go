package postgres

import (
	"database/sql"
	"time"
)

type availabilityTableModel struct {
	ID             int64        `db:"id"`
	PlayerName     string       `db:"player_name"`
	Team           string       `db:"team"`
	Status         string       `db:"status"`
	Reason         string       `db:"reason"`
	StartDate      time.Time    `db:"start_date"`
	ExpectedReturn sql.NullTime `db:"expected_return_date"`
	ImpactLevel    int          `db:"impact_level"`
	IsKeyPlayer    bool         `db:"is_key_player"`
	CreatedAt      time.Time    `db:"created_at"`
}

type availabilityInsertModel struct {
	PlayerName     string       `db:"player_name"`
	Team           string       `db:"team"`
	Status         string       `db:"status"`
	Reason         string       `db:"reason"`
	StartDate      time.Time    `db:"start_date"`
	ExpectedReturn sql.NullTime `db:"expected_return_date"`
	ImpactLevel    int          `db:"impact_level"`
	IsKeyPlayer    bool         `db:"is_key_player"`
}
