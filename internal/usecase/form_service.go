package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/form"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// fatigueWindow is how far back the fatigue index counts matches.
const fatigueWindow = 30 * 24 * time.Hour

// venueSplitWindow bounds the home/away performance lookback.
const venueSplitWindow = 365 * 24 * time.Hour

type FormService struct {
	matchRepo match.Repository
	formRepo  form.Repository
	logger    *logging.Logger
}

func NewFormService(matchRepo match.Repository, formRepo form.Repository, logger *logging.Logger) *FormService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FormService{
		matchRepo: matchRepo,
		formRepo:  formRepo,
		logger:    logger,
	}
}

// Compute derives the team's recency-weighted form as of the given instant
// and stores it keyed on (team, date). A team with no prior played matches
// has undefined form: Compute reports ok=false and stores nothing.
func (s *FormService) Compute(ctx context.Context, team string, asOf time.Time) (form.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.Compute")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return form.Record{}, false, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	if asOf.IsZero() {
		return form.Record{}, false, fmt.Errorf("%w: as-of date is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListRecentByTeam(ctx, team, asOf, form.MaxMatches)
	if err != nil {
		return form.Record{}, false, fmt.Errorf("list recent matches team=%s: %w", team, err)
	}
	if len(matches) == 0 {
		return form.Record{}, false, nil
	}

	points := make([]int, 0, len(matches))
	goalsScored, goalsConceded := 0, 0
	for _, m := range matches {
		p, ok := m.PointsFor(team)
		if !ok {
			continue
		}
		points = append(points, p)
		scored, conceded, _ := m.GoalsFor(team)
		goalsScored += scored
		goalsConceded += conceded
	}
	if len(points) == 0 {
		return form.Record{}, false, nil
	}

	record := form.Record{
		Team:           team,
		AsOf:           asOf,
		Score:          form.Score(points),
		LastFivePoints: points,
		GoalsScored:    goalsScored,
		GoalsConceded:  goalsConceded,
	}

	if err := s.formRepo.Upsert(ctx, record); err != nil {
		return form.Record{}, false, fmt.Errorf("upsert form team=%s: %w", team, err)
	}

	s.logger.DebugContext(ctx, "team form computed",
		"team", team,
		"as_of", asOf.Format(time.RFC3339),
		"score", record.Score,
		"matches", len(points),
	)

	return record, true, nil
}

// Lookup returns the form record stored for the team's as-of day without
// recomputing it. Reads go through the cache-decorated repository when
// caching is enabled.
func (s *FormService) Lookup(ctx context.Context, team string, asOf time.Time) (form.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.Lookup")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return form.Record{}, false, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	record, exists, err := s.formRepo.Get(ctx, team, asOf)
	if err != nil {
		return form.Record{}, false, fmt.Errorf("get form team=%s: %w", team, err)
	}
	return record, exists, nil
}

// FatigueIndex counts the team's played matches in the 30 days before asOf.
func (s *FormService) FatigueIndex(ctx context.Context, team string, asOf time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.FatigueIndex")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return 0, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	count, err := s.matchRepo.CountForTeamBetween(ctx, team, asOf.Add(-fatigueWindow), asOf)
	if err != nil {
		return 0, fmt.Errorf("count recent matches team=%s: %w", team, err)
	}

	return count, nil
}

// VenueSplit aggregates the team's home (or away) results over the last
// year. An empty window yields a zero split, not an error.
func (s *FormService) VenueSplit(ctx context.Context, team string, home bool, asOf time.Time) (form.VenueSplit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.VenueSplit")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return form.VenueSplit{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListVenueForTeam(ctx, team, home, asOf.Add(-venueSplitWindow))
	if err != nil {
		return form.VenueSplit{}, fmt.Errorf("list venue matches team=%s: %w", team, err)
	}
	if len(matches) == 0 {
		return form.VenueSplit{}, nil
	}

	scored, conceded, wins := 0, 0, 0
	counted := 0
	for _, m := range matches {
		gs, gc, ok := m.GoalsFor(team)
		if !ok {
			continue
		}
		scored += gs
		conceded += gc
		counted++
		if p, _ := m.PointsFor(team); p == 3 {
			wins++
		}
	}
	if counted == 0 {
		return form.VenueSplit{}, nil
	}

	n := float64(counted)
	return form.VenueSplit{
		Matches:          counted,
		GoalsScoredAvg:   float64(scored) / n,
		GoalsConcededAvg: float64(conceded) / n,
		WinPct:           float64(wins) * 100 / n,
	}, nil
}
