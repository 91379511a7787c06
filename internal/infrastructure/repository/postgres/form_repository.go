package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/mouss/ligue1-agent/internal/domain/form"
	qb "github.com/mouss/ligue1-agent/internal/platform/querybuilder"
)

type FormRepository struct {
	db *sqlx.DB
}

func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) Get(ctx context.Context, team string, asOf time.Time) (form.Record, bool, error) {
	query, args, err := qb.Select("*").From("team_form").
		Where(
			qb.Eq("team", team),
			qb.Eq("date", formDateKey(asOf)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return form.Record{}, false, fmt.Errorf("build select team form query: %w", err)
	}

	var row formTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return form.Record{}, false, nil
		}
		return form.Record{}, false, fmt.Errorf("select team form: %w", err)
	}

	record, err := formFromRow(row)
	if err != nil {
		return form.Record{}, false, err
	}
	return record, true, nil
}

func (r *FormRepository) Upsert(ctx context.Context, record form.Record) error {
	lastFive, err := sonic.Marshal(record.LastFivePoints)
	if err != nil {
		return fmt.Errorf("encode last five points: %w", err)
	}

	insertModel := formInsertModel{
		Team:          record.Team,
		Date:          formDateKey(record.AsOf),
		Form:          record.Score,
		LastFive:      lastFive,
		GoalsScored:   record.GoalsScored,
		GoalsConceded: record.GoalsConceded,
	}

	query, args, err := qb.InsertModel("team_form", insertModel, `ON CONFLICT (team, date)
DO UPDATE SET
    form = EXCLUDED.form,
    last_5_matches = EXCLUDED.last_5_matches,
    goals_scored = EXCLUDED.goals_scored,
    goals_conceded = EXCLUDED.goals_conceded,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team form query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team form team=%s: %w", record.Team, err)
	}

	return nil
}

// formDateKey normalizes the as-of instant to its UTC date so one record
// exists per calendar day.
func formDateKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func formFromRow(row formTableModel) (form.Record, error) {
	var points []int
	if len(row.LastFive) > 0 {
		if err := sonic.Unmarshal(row.LastFive, &points); err != nil {
			return form.Record{}, fmt.Errorf("decode last five points: %w", err)
		}
	}

	return form.Record{
		Team:           row.Team,
		AsOf:           row.Date,
		Score:          row.Form,
		LastFivePoints: points,
		GoalsScored:    row.GoalsScored,
		GoalsConceded:  row.GoalsConceded,
	}, nil
}
