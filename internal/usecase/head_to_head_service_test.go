package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/memory"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

func newHeadToHeadService(t *testing.T) (*HeadToHeadService, *memory.HeadToHeadRepository) {
	t.Helper()
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	h2hRepo := memory.NewHeadToHeadRepository()
	svc := NewHeadToHeadService(matchRepo, h2hRepo, logging.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc, h2hRepo
}

func TestHeadToHeadServiceCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies meetings from the first team's perspective", func(t *testing.T) {
		svc, h2hRepo := newHeadToHeadService(t)

		record, ok, err := svc.Compute(ctx, memory.TeamParis, memory.TeamMarseille)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected a computed record")
		}

		// Two meetings: 1-1 draw, then 3-0 Paris, most recent first.
		if record.TeamAWins != 1 || record.TeamBWins != 0 || record.Draws != 1 {
			t.Fatalf("unexpected tallies: %+v", record)
		}
		want := []string{headtohead.ResultDraw, headtohead.ResultTeamAWin}
		if len(record.LastFiveResults) != len(want) {
			t.Fatalf("unexpected results: %v", record.LastFiveResults)
		}
		for i, res := range record.LastFiveResults {
			if res != want[i] {
				t.Fatalf("unexpected results: got=%v want=%v", record.LastFiveResults, want)
			}
		}
		if record.TeamAGoalsAvg != 2 || record.TeamBGoalsAvg != 0.5 {
			t.Fatalf("unexpected goal averages: %+v", record)
		}
		if h2hRepo.Len() != 1 {
			t.Fatalf("expected one stored pair, got %d", h2hRepo.Len())
		}
	})

	t.Run("mirror consistency", func(t *testing.T) {
		svc, _ := newHeadToHeadService(t)

		forward, ok, err := svc.Compute(ctx, memory.TeamParis, memory.TeamMarseille)
		if err != nil || !ok {
			t.Fatalf("forward compute failed: ok=%t err=%v", ok, err)
		}
		reverse, ok, err := svc.Compute(ctx, memory.TeamMarseille, memory.TeamParis)
		if err != nil || !ok {
			t.Fatalf("reverse compute failed: ok=%t err=%v", ok, err)
		}

		if forward.TeamAWins != reverse.TeamBWins || forward.TeamBWins != reverse.TeamAWins {
			t.Fatalf("win tallies not mirrored: %+v vs %+v", forward, reverse)
		}
		if forward.TeamAGoalsAvg != reverse.TeamBGoalsAvg || forward.TeamBGoalsAvg != reverse.TeamAGoalsAvg {
			t.Fatalf("goal averages not mirrored: %+v vs %+v", forward, reverse)
		}
		if forward.Draws != reverse.Draws {
			t.Fatalf("draws differ: %d vs %d", forward.Draws, reverse.Draws)
		}
	})

	t.Run("no meetings", func(t *testing.T) {
		svc, h2hRepo := newHeadToHeadService(t)

		_, ok, err := svc.Compute(ctx, memory.TeamNice, memory.TeamLille)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected ok=false for teams that never met")
		}
		if h2hRepo.Len() != 0 {
			t.Fatalf("nothing should be stored, got %d", h2hRepo.Len())
		}
	})

	t.Run("same team rejected", func(t *testing.T) {
		svc, _ := newHeadToHeadService(t)

		_, _, err := svc.Compute(ctx, memory.TeamParis, memory.TeamParis)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("future meetings are excluded", func(t *testing.T) {
		svc, _ := newHeadToHeadService(t)
		svc.now = func() time.Time {
			return time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
		}

		record, ok, err := svc.Compute(ctx, memory.TeamParis, memory.TeamMarseille)
		if err != nil || !ok {
			t.Fatalf("compute failed: ok=%t err=%v", ok, err)
		}
		// Only the March 1 meeting has happened.
		if record.TeamAWins != 1 || record.Draws != 0 {
			t.Fatalf("unexpected tallies: %+v", record)
		}
	})
}

func TestHeadToHeadServiceLookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newHeadToHeadService(t)

	if _, ok, err := svc.Compute(ctx, memory.TeamParis, memory.TeamMarseille); err != nil || !ok {
		t.Fatalf("seed compute failed: ok=%t err=%v", ok, err)
	}

	// The stored record is canonical (Marseille sorts first); Lookup must
	// flip it back to the requested perspective.
	record, exists, err := svc.Lookup(ctx, memory.TeamParis, memory.TeamMarseille)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected a stored record")
	}
	if record.TeamA != memory.TeamParis {
		t.Fatalf("unexpected perspective: %q", record.TeamA)
	}
	if record.TeamAWins != 1 || record.TeamBWins != 0 {
		t.Fatalf("unexpected tallies: %+v", record)
	}

	_, exists, err = svc.Lookup(ctx, memory.TeamNice, memory.TeamLille)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected no record for an unseen pair")
	}
}
