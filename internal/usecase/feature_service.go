package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"

	"github.com/mouss/ligue1-agent/internal/domain/feature"
	"github.com/mouss/ligue1-agent/internal/domain/form"
	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/domain/weather"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// Confidence bounds for the display heuristic.
const (
	confidenceFloor   = 35.0
	confidenceCeiling = 90.0
)

type FeatureService struct {
	forms        *FormService
	headToHead   *HeadToHeadService
	availability *AvailabilityService
	weather      *WeatherService
	validate     *validator.Validate
	logger       *logging.Logger
}

func NewFeatureService(
	forms *FormService,
	headToHead *HeadToHeadService,
	availability *AvailabilityService,
	weather *WeatherService,
	logger *logging.Logger,
) *FeatureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FeatureService{
		forms:        forms,
		headToHead:   headToHead,
		availability: availability,
		weather:      weather,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
	}
}

// Assemble builds the full feature vector for one fixture. The independent
// sub-computations run concurrently and the first failure cancels the rest.
// Absent form or head-to-head history zero-fills the matching fields; a
// weather or repository failure aborts the whole assembly.
func (s *FeatureService) Assemble(ctx context.Context, m match.Match) (feature.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.Assemble")
	defer span.End()

	if m.HomeTeam == "" || m.AwayTeam == "" {
		return feature.Record{}, fmt.Errorf("%w: match teams are required", ErrInvalidInput)
	}
	if m.Date.IsZero() {
		return feature.Record{}, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}

	var (
		homeForm, awayForm       form.Record
		homeFormOK, awayFormOK   bool
		h2h                      headtohead.Record
		h2hOK                    bool
		homeOut, awayOut         TeamAvailability
		conditions               weather.Record
		homeFatigue, awayFatigue int
		homeSplit, awaySplit     form.VenueSplit
	)

	tasks := pool.New().WithContext(ctx).WithCancelOnError()

	tasks.Go(func(ctx context.Context) error {
		var err error
		homeForm, homeFormOK, err = s.formFor(ctx, m.HomeTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		awayForm, awayFormOK, err = s.formFor(ctx, m.AwayTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		h2h, h2hOK, err = s.headToHeadFor(ctx, m.HomeTeam, m.AwayTeam)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		homeOut, err = s.availability.MissingKeyPlayers(ctx, m.HomeTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		awayOut, err = s.availability.MissingKeyPlayers(ctx, m.AwayTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		conditions, err = s.weather.ForMatch(ctx, m.Stadium, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		homeFatigue, err = s.forms.FatigueIndex(ctx, m.HomeTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		awayFatigue, err = s.forms.FatigueIndex(ctx, m.AwayTeam, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		homeSplit, err = s.forms.VenueSplit(ctx, m.HomeTeam, true, m.Date)
		return err
	})
	tasks.Go(func(ctx context.Context) error {
		var err error
		awaySplit, err = s.forms.VenueSplit(ctx, m.AwayTeam, false, m.Date)
		return err
	})

	if err := tasks.Wait(); err != nil {
		return feature.Record{}, fmt.Errorf("assemble features %s vs %s: %w", m.HomeTeam, m.AwayTeam, err)
	}

	record := feature.Record{
		HomeGoalsScoredAvg:    homeSplit.GoalsScoredAvg,
		AwayGoalsScoredAvg:    awaySplit.GoalsScoredAvg,
		HomeGoalsConcededAvg:  homeSplit.GoalsConcededAvg,
		AwayGoalsConcededAvg:  awaySplit.GoalsConcededAvg,
		HomeWinPct:            homeSplit.WinPct,
		AwayWinPct:            awaySplit.WinPct,
		WeatherTemp:           conditions.TemperatureC,
		WeatherRain:           conditions.PrecipitationMm,
		WeatherWind:           conditions.WindSpeedKph,
		HomeMissingKeyPlayers: homeOut.MissingKeyPlayers,
		AwayMissingKeyPlayers: awayOut.MissingKeyPlayers,
		HomeFatigueIndex:      homeFatigue,
		AwayFatigueIndex:      awayFatigue,
	}
	if homeFormOK {
		record.HomeTeamForm = homeForm.Score
	}
	if awayFormOK {
		record.AwayTeamForm = awayForm.Score
	}
	if h2hOK {
		record.H2HHomeWins = h2h.TeamAWins
		record.H2HAwayWins = h2h.TeamBWins
		record.H2HDraws = h2h.Draws
		record.H2HHomeGoalsAvg = h2h.TeamAGoalsAvg
		record.H2HAwayGoalsAvg = h2h.TeamBGoalsAvg
	}

	if err := s.validate.StructCtx(ctx, record); err != nil {
		return feature.Record{}, fmt.Errorf("validate feature record %s vs %s: %w", m.HomeTeam, m.AwayTeam, err)
	}

	s.logger.DebugContext(ctx, "feature vector assembled",
		"home", m.HomeTeam,
		"away", m.AwayTeam,
		"home_form", record.HomeTeamForm,
		"away_form", record.AwayTeamForm,
	)

	return record, nil
}

// formFor reuses a form record already stored for the team's match day and
// computes one only on a miss. Batch export reads through the cached
// repository here instead of recomputing per match.
func (s *FeatureService) formFor(ctx context.Context, team string, date time.Time) (form.Record, bool, error) {
	record, ok, err := s.forms.Lookup(ctx, team, date)
	if err != nil || ok {
		return record, ok, err
	}
	return s.forms.Compute(ctx, team, date)
}

// headToHeadFor reuses stored pair stats, recomputing only when the pair
// has no record yet. The recompute command refreshes stale rows.
func (s *FeatureService) headToHeadFor(ctx context.Context, home, away string) (headtohead.Record, bool, error) {
	record, ok, err := s.headToHead.Lookup(ctx, home, away)
	if err != nil || ok {
		return record, ok, err
	}
	return s.headToHead.Compute(ctx, home, away)
}

// Confidence maps a feature record to a display confidence percentage. It
// is a deterministic function of the form gap and the head-to-head edge,
// clamped to [35, 90].
func Confidence(record feature.Record) float64 {
	score := 50 + 25*(record.HomeTeamForm-record.AwayTeamForm)

	meetings := record.H2HHomeWins + record.H2HAwayWins + record.H2HDraws
	if meetings > 0 {
		edge := float64(record.H2HHomeWins-record.H2HAwayWins) / float64(meetings)
		score += 15 * edge
	}

	if score < confidenceFloor {
		return confidenceFloor
	}
	if score > confidenceCeiling {
		return confidenceCeiling
	}
	return score
}
