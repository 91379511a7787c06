package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	qb "github.com/mouss/ligue1-agent/internal/platform/querybuilder"
)

type HeadToHeadRepository struct {
	db *sqlx.DB
}

func NewHeadToHeadRepository(db *sqlx.DB) *HeadToHeadRepository {
	return &HeadToHeadRepository{db: db}
}

func (r *HeadToHeadRepository) Get(ctx context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	first, second, _ := headtohead.CanonicalPair(teamA, teamB)

	query, args, err := qb.Select("*").From("head_to_head_stats").
		Where(
			qb.Eq("team1", first),
			qb.Eq("team2", second),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return headtohead.Record{}, false, fmt.Errorf("build select head to head query: %w", err)
	}

	var row headToHeadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return headtohead.Record{}, false, nil
		}
		return headtohead.Record{}, false, fmt.Errorf("select head to head: %w", err)
	}

	return headToHeadFromRow(row), true, nil
}

func (r *HeadToHeadRepository) Upsert(ctx context.Context, record headtohead.Record) error {
	first, _, swapped := headtohead.CanonicalPair(record.TeamA, record.TeamB)
	if swapped && first != record.TeamA {
		record = record.Mirrored()
	}

	insertModel := headToHeadInsertModel{
		Team1:         record.TeamA,
		Team2:         record.TeamB,
		LastFive:      strings.Join(record.LastFiveResults, ","),
		Team1GoalsAvg: record.TeamAGoalsAvg,
		Team2GoalsAvg: record.TeamBGoalsAvg,
		Team1Wins:     record.TeamAWins,
		Team2Wins:     record.TeamBWins,
		Draws:         record.Draws,
	}

	query, args, err := qb.InsertModel("head_to_head_stats", insertModel, `ON CONFLICT (team1, team2)
DO UPDATE SET
    last_5_matches = EXCLUDED.last_5_matches,
    team1_goals_avg = EXCLUDED.team1_goals_avg,
    team2_goals_avg = EXCLUDED.team2_goals_avg,
    team1_wins = EXCLUDED.team1_wins,
    team2_wins = EXCLUDED.team2_wins,
    draws = EXCLUDED.draws,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert head to head query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert head to head %s vs %s: %w", record.TeamA, record.TeamB, err)
	}

	return nil
}

func headToHeadFromRow(row headToHeadTableModel) headtohead.Record {
	var results []string
	if trimmed := strings.TrimSpace(row.LastFive); trimmed != "" {
		results = strings.Split(trimmed, ",")
	}

	return headtohead.Record{
		TeamA:           row.Team1,
		TeamB:           row.Team2,
		LastFiveResults: results,
		TeamAGoalsAvg:   row.Team1GoalsAvg,
		TeamBGoalsAvg:   row.Team2GoalsAvg,
		TeamAWins:       row.Team1Wins,
		TeamBWins:       row.Team2Wins,
		Draws:           row.Draws,
		UpdatedAt:       row.UpdatedAt,
	}
}
