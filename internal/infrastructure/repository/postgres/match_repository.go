package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	qb "github.com/mouss/ligue1-agent/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListRecentByTeam(ctx context.Context, team string, before time.Time, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Expr("(home_team = ? OR away_team = ?)", team, team),
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
			qb.Lt("date", before),
		).
		OrderBy("date DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent matches by team: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *MatchRepository) ListMeetings(ctx context.Context, teamA, teamB string, until time.Time, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.In("home_team", []any{teamA, teamB}),
			qb.In("away_team", []any{teamA, teamB}),
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
			qb.Lte("date", until),
		).
		OrderBy("date DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select meetings query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select meetings: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *MatchRepository) ListVenueForTeam(ctx context.Context, team string, home bool, since time.Time) ([]match.Match, error) {
	column := "away_team"
	if home {
		column = "home_team"
	}

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq(column, team),
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
			qb.Expr("date >= ?", since),
		).
		OrderBy("date DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select venue matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select venue matches: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *MatchRepository) CountForTeamBetween(ctx context.Context, team string, from, to time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").
		Where(
			qb.Expr("(home_team = ? OR away_team = ?)", team, team),
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
			qb.Gt("date", from),
			qb.Lte("date", to),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches for team: %w", err)
	}

	return count, nil
}

func (r *MatchRepository) ListPlayed(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.NotNull("home_score"),
			qb.NotNull("away_score"),
		).
		OrderBy("date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select played matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select played matches: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Expr("date >= ?", from)).
		OrderBy("date").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming matches: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *MatchRepository) Teams(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, column := range []string{"home_team", "away_team"} {
		query, args, err := qb.Select("DISTINCT " + column).From("matches").ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select teams query: %w", err)
		}

		var names []string
		if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
			return nil, fmt.Errorf("select team names: %w", err)
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MatchRepository) UpsertBatch(ctx context.Context, matches []match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range matches {
		insertModel := matchInsertModel{
			FixtureID: int64PtrToNull(item.FixtureID),
			Date:      item.Date,
			HomeTeam:  item.HomeTeam,
			AwayTeam:  item.AwayTeam,
			HomeScore: intPtrToNull(item.HomeScore),
			AwayScore: intPtrToNull(item.AwayScore),
			Round:     item.Round,
			Season:    item.Season,
			Status:    item.Status,
			Stadium:   item.Stadium,
		}

		suffix := ""
		if item.FixtureID != nil {
			suffix = `ON CONFLICT (fixture_id) WHERE fixture_id IS NOT NULL
DO UPDATE SET
    date = EXCLUDED.date,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    round = EXCLUDED.round,
    season = EXCLUDED.season,
    status = EXCLUDED.status,
    stadium = EXCLUDED.stadium,
    updated_at = NOW()`
		}

		query, args, err := qb.InsertModel("matches", insertModel, suffix)
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match fixture_id=%v: %w", item.FixtureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches: %w", err)
	}

	return nil
}

func matchesFromRows(rows []matchTableModel) []match.Match {
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:        row.ID,
			FixtureID: nullInt64ToPtr(row.FixtureID),
			Date:      row.Date,
			HomeTeam:  row.HomeTeam,
			AwayTeam:  row.AwayTeam,
			HomeScore: nullInt64ToIntPtr(row.HomeScore),
			AwayScore: nullInt64ToIntPtr(row.AwayScore),
			Round:     row.Round,
			Season:    row.Season,
			Status:    row.Status,
			Stadium:   row.Stadium,
		})
	}
	return out
}
