package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/mouss/ligue1-agent/internal/platform/querybuilder"
	"github.com/mouss/ligue1-agent/internal/domain/weather"
)

type WeatherRepository struct {
	db *sqlx.DB
}

func NewWeatherRepository(db *sqlx.DB) *WeatherRepository {
	return &WeatherRepository{db: db}
}

func (r *WeatherRepository) Get(ctx context.Context, stadium string, matchDate time.Time) (weather.Record, bool, error) {
	query, args, err := qb.Select("*").From("stadium_conditions").
		Where(
			qb.Eq("stadium", stadium),
			qb.Eq("match_date", weatherDateKey(matchDate)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return weather.Record{}, false, fmt.Errorf("build select stadium conditions query: %w", err)
	}

	var row weatherTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return weather.Record{}, false, nil
		}
		return weather.Record{}, false, fmt.Errorf("select stadium conditions: %w", err)
	}

	return weather.Record{
		Stadium:         row.Stadium,
		MatchDate:       row.MatchDate,
		TemperatureC:    row.Temperature,
		PrecipitationMm: row.Precipitation,
		WindSpeedKph:    row.WindSpeed,
		Condition:       row.Condition,
		FetchedAt:       row.FetchedAt,
	}, true, nil
}

func (r *WeatherRepository) Insert(ctx context.Context, record weather.Record) error {
	insertModel := weatherInsertModel{
		Stadium:       record.Stadium,
		MatchDate:     weatherDateKey(record.MatchDate),
		Temperature:   record.TemperatureC,
		Precipitation: record.PrecipitationMm,
		WindSpeed:     record.WindSpeedKph,
		Condition:     record.Condition,
	}

	// First fetch wins; a concurrent writer's record is left as is.
	query, args, err := qb.InsertModel("stadium_conditions", insertModel, "ON CONFLICT (stadium, match_date) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert stadium conditions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert stadium conditions stadium=%s: %w", record.Stadium, err)
	}

	return nil
}

func weatherDateKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
