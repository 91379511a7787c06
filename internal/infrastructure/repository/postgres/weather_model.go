package postgres

import "time"

type weatherTableModel struct {
	Stadium       string    `db:"stadium"`
	MatchDate     time.Time `db:"match_date"`
	Temperature   float64   `db:"temperature"`
	Precipitation float64   `db:"precipitation"`
	WindSpeed     float64   `db:"wind_speed"`
	Condition     string    `db:"weather_condition"`
	FetchedAt     time.Time `db:"fetched_at"`
}

type weatherInsertModel struct {
	Stadium       string    `db:"stadium"`
	MatchDate     time.Time `db:"match_date"`
	Temperature   float64   `db:"temperature"`
	Precipitation float64   `db:"precipitation"`
	WindSpeed     float64   `db:"wind_speed"`
	Condition     string    `db:"weather_condition"`
}
