package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// ExternalFixture is the provider-shape fixture before mapping into the
// domain model.
type ExternalFixture struct {
	ID        int64
	Date      time.Time
	Status    string
	Round     string
	HomeTeam  string
	AwayTeam  string
	HomeGoals *int
	AwayGoals *int
	Stadium   string
}

// FixtureProvider fetches a whole season of fixtures from the upstream
// football data API.
type FixtureProvider interface {
	SeasonFixtures(ctx context.Context, season int) ([]ExternalFixture, error)
}

// SyncStats summarizes one synchronization run.
type SyncStats struct {
	Season   int
	Fetched  int
	Upserted int
	Skipped  int
}

type SyncService struct {
	provider  FixtureProvider
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewSyncService(provider FixtureProvider, matchRepo match.Repository, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:  provider,
		matchRepo: matchRepo,
		logger:    logger,
	}
}

// Run pulls the season's fixtures and writes them as one batch. The upsert
// is transactional: a failure leaves the store exactly as it was.
func (s *SyncService) Run(ctx context.Context, season int) (SyncStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if season < 2000 {
		return SyncStats{}, fmt.Errorf("%w: season %d out of range", ErrInvalidInput, season)
	}

	fixtures, err := s.provider.SeasonFixtures(ctx, season)
	if err != nil {
		return SyncStats{}, fmt.Errorf("fetch season %d fixtures: %w", season, err)
	}

	stats := SyncStats{Season: season, Fetched: len(fixtures)}

	matches := make([]match.Match, 0, len(fixtures))
	for _, f := range fixtures {
		if f.HomeTeam == "" || f.AwayTeam == "" || f.HomeTeam == f.AwayTeam {
			stats.Skipped++
			continue
		}
		id := f.ID
		matches = append(matches, match.Match{
			FixtureID: &id,
			Date:      f.Date,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			HomeScore: f.HomeGoals,
			AwayScore: f.AwayGoals,
			Round:     f.Round,
			Season:    season,
			Status:    match.NormalizeStatus(f.Status),
			Stadium:   f.Stadium,
		})
	}

	if len(matches) == 0 {
		s.logger.WarnContext(ctx, "no usable fixtures fetched", "season", season, "fetched", stats.Fetched)
		return stats, nil
	}

	if err := s.matchRepo.UpsertBatch(ctx, matches); err != nil {
		return SyncStats{}, fmt.Errorf("upsert %d fixtures season=%d: %w", len(matches), season, err)
	}
	stats.Upserted = len(matches)

	s.logger.InfoContext(ctx, "fixtures synchronized",
		"season", season,
		"fetched", stats.Fetched,
		"upserted", stats.Upserted,
		"skipped", stats.Skipped,
	)

	return stats, nil
}
