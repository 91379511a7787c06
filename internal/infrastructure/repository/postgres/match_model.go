package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID        int64         `db:"id"`
	FixtureID sql.NullInt64 `db:"fixture_id"`
	Date      time.Time     `db:"date"`
	HomeTeam  string        `db:"home_team"`
	AwayTeam  string        `db:"away_team"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	Round     string        `db:"round"`
	Season    int           `db:"season"`
	Status    string        `db:"status"`
	Stadium   string        `db:"stadium"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	FixtureID sql.NullInt64 `db:"fixture_id"`
	Date      time.Time     `db:"date"`
	HomeTeam  string        `db:"home_team"`
	AwayTeam  string        `db:"away_team"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	Round     string        `db:"round"`
	Season    int           `db:"season"`
	Status    string        `db:"status"`
	Stadium   string        `db:"stadium"`
}
