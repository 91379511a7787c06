package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mouss/ligue1-agent/internal/domain/availability"
	qb "github.com/mouss/ligue1-agent/internal/platform/querybuilder"
)

type AvailabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) ListUnavailable(ctx context.Context, team string, date time.Time, keyOnly bool) ([]availability.Record, error) {
	day := availabilityDateKey(date)
	conditions := []qb.Condition{
		qb.Eq("team", team),
		qb.Lte("start_date", day),
		qb.Expr("(expected_return_date >= ? OR expected_return_date IS NULL)", day),
	}
	if keyOnly {
		conditions = append(conditions, qb.Eq("is_key_player", true))
	}

	query, args, err := qb.Select("*").From("player_availability").
		Where(conditions...).
		OrderBy("impact_level DESC", "player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select availability query: %w", err)
	}

	var rows []availabilityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unavailable players: %w", err)
	}

	out := make([]availability.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Record{
			ID:             row.ID,
			PlayerName:     row.PlayerName,
			Team:           row.Team,
			Status:         row.Status,
			Reason:         row.Reason,
			StartDate:      row.StartDate,
			ExpectedReturn: nullTimeToPtr(row.ExpectedReturn),
			ImpactLevel:    row.ImpactLevel,
			IsKeyPlayer:    row.IsKeyPlayer,
		})
	}

	return out, nil
}

func (r *AvailabilityRepository) Insert(ctx context.Context, record availability.Record) (int64, error) {
	insertModel := availabilityInsertModel{
		PlayerName:     record.PlayerName,
		Team:           record.Team,
		Status:         record.Status,
		Reason:         record.Reason,
		StartDate:      availabilityDateKey(record.StartDate),
		ExpectedReturn: timePtrToNull(record.ExpectedReturn),
		ImpactLevel:    record.ImpactLevel,
		IsKeyPlayer:    record.IsKeyPlayer,
	}

	query, args, err := qb.InsertModel("player_availability", insertModel, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert availability query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert availability player=%s: %w", record.PlayerName, err)
	}

	return id, nil
}

func (r *AvailabilityRepository) SetExpectedReturn(ctx context.Context, id int64, returnDate time.Time) (bool, error) {
	query, args, err := qb.Update("player_availability").
		Set("expected_return_date", availabilityDateKey(returnDate)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update availability query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set expected return id=%d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set expected return id=%d: %w", id, err)
	}

	return affected > 0, nil
}

func availabilityDateKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
