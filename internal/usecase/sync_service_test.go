package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/memory"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

type stubFixtureProvider struct {
	fixtures []ExternalFixture
	err      error
}

func (p *stubFixtureProvider) SeasonFixtures(_ context.Context, _ int) ([]ExternalFixture, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

func intPtr(v int) *int { return &v }

func TestSyncServiceRun(t *testing.T) {
	ctx := context.Background()
	kickoff := time.Date(2025, 8, 17, 20, 45, 0, 0, time.UTC)

	t.Run("maps and upserts fixtures", func(t *testing.T) {
		provider := &stubFixtureProvider{fixtures: []ExternalFixture{
			{
				ID:        2001,
				Date:      kickoff,
				Status:    "FT",
				Round:     "Regular Season - 1",
				HomeTeam:  memory.TeamParis,
				AwayTeam:  memory.TeamNice,
				HomeGoals: intPtr(2),
				AwayGoals: intPtr(0),
				Stadium:   "Parc des Princes",
			},
			{
				ID:       2002,
				Date:     kickoff.AddDate(0, 0, 1),
				Status:   "ns",
				Round:    "Regular Season - 1",
				HomeTeam: memory.TeamLyon,
				AwayTeam: memory.TeamLille,
				Stadium:  "Groupama Stadium",
			},
			// Malformed rows are skipped, not fatal.
			{ID: 2003, Date: kickoff, HomeTeam: memory.TeamMonaco, AwayTeam: memory.TeamMonaco},
			{ID: 2004, Date: kickoff, HomeTeam: "", AwayTeam: memory.TeamNice},
		}}
		matchRepo := memory.NewMatchRepository(nil)
		svc := NewSyncService(provider, matchRepo, logging.NewNop())

		stats, err := svc.Run(ctx, 2025)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Fetched != 4 || stats.Upserted != 2 || stats.Skipped != 2 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		played, err := matchRepo.ListPlayed(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(played) != 1 {
			t.Fatalf("unexpected played count: %d", len(played))
		}
		if played[0].Status != "FT" || played[0].Season != 2025 {
			t.Fatalf("unexpected mapped match: %+v", played[0])
		}

		upcoming, err := matchRepo.ListUpcoming(ctx, kickoff.AddDate(0, 0, 1), 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(upcoming) != 1 || upcoming[0].Status != "NS" {
			t.Fatalf("unexpected upcoming: %+v", upcoming)
		}
	})

	t.Run("rerun updates in place", func(t *testing.T) {
		fixture := ExternalFixture{
			ID:       2001,
			Date:     kickoff,
			Status:   "NS",
			HomeTeam: memory.TeamParis,
			AwayTeam: memory.TeamNice,
			Stadium:  "Parc des Princes",
		}
		provider := &stubFixtureProvider{fixtures: []ExternalFixture{fixture}}
		matchRepo := memory.NewMatchRepository(nil)
		svc := NewSyncService(provider, matchRepo, logging.NewNop())

		if _, err := svc.Run(ctx, 2025); err != nil {
			t.Fatalf("first run failed: %v", err)
		}

		fixture.Status = "FT"
		fixture.HomeGoals = intPtr(1)
		fixture.AwayGoals = intPtr(1)
		provider.fixtures = []ExternalFixture{fixture}

		if _, err := svc.Run(ctx, 2025); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		played, err := matchRepo.ListPlayed(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(played) != 1 {
			t.Fatalf("rerun should replace, not duplicate: %d rows", len(played))
		}
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		provider := &stubFixtureProvider{err: errors.New("upstream down")}
		svc := NewSyncService(provider, memory.NewMatchRepository(nil), logging.NewNop())

		if _, err := svc.Run(ctx, 2025); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("season validated", func(t *testing.T) {
		svc := NewSyncService(&stubFixtureProvider{}, memory.NewMatchRepository(nil), logging.NewNop())

		if _, err := svc.Run(ctx, 99); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
