package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/memory"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

func TestRecomputeServiceRun(t *testing.T) {
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	formRepo := memory.NewFormRepository()
	h2hRepo := memory.NewHeadToHeadRepository()

	forms := NewFormService(matchRepo, formRepo, logging.NewNop())
	headToHead := NewHeadToHeadService(matchRepo, h2hRepo, logging.NewNop())
	headToHead.now = func() time.Time {
		return time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
	}

	svc := NewRecomputeService(matchRepo, forms, headToHead, logging.NewNop())

	result, err := svc.Run(ctx, RecomputeInput{MaxWorkers: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10 played matches: 20 form tasks plus 9 distinct pairings.
	if result.TaskCount != 29 {
		t.Fatalf("unexpected task count: %d", result.TaskCount)
	}
	if result.WorkerCount != 4 {
		t.Fatalf("unexpected worker count: %d", result.WorkerCount)
	}
	if result.FailedCount != 0 {
		t.Fatalf("unexpected failures: %+v", result.Tasks)
	}
	if result.SuccessCount+result.SkippedCount != result.TaskCount {
		t.Fatalf("counts do not add up: %+v", result)
	}
	if len(result.Tasks) != result.TaskCount {
		t.Fatalf("task rows missing: %d", len(result.Tasks))
	}

	// Each team's first appearance has no prior history and is skipped.
	if result.SkippedCount == 0 {
		t.Fatal("expected some skipped first-appearance tasks")
	}

	// All head-to-head pairs with meetings end up stored.
	if h2hRepo.Len() != 9 {
		t.Fatalf("unexpected stored pairs: %d", h2hRepo.Len())
	}
	if formRepo.Len() == 0 {
		t.Fatal("expected stored form records")
	}

	// Reruns are idempotent.
	again, err := svc.Run(ctx, RecomputeInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.TaskCount != result.TaskCount || again.FailedCount != 0 {
		t.Fatalf("rerun diverged: %+v", again)
	}
	if h2hRepo.Len() != 9 {
		t.Fatalf("rerun changed stored pairs: %d", h2hRepo.Len())
	}
}

func TestRecomputeServiceEmptyStore(t *testing.T) {
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository(nil)
	forms := NewFormService(matchRepo, memory.NewFormRepository(), logging.NewNop())
	headToHead := NewHeadToHeadService(matchRepo, memory.NewHeadToHeadRepository(), logging.NewNop())
	svc := NewRecomputeService(matchRepo, forms, headToHead, logging.NewNop())

	result, err := svc.Run(ctx, RecomputeInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TaskCount != 0 || len(result.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %+v", result)
	}
}

func TestNormalizeRecomputeWorkerCount(t *testing.T) {
	cases := []struct {
		requested, tasks, want int
	}{
		{0, 100, defaultRecomputeWorkers},
		{-1, 100, defaultRecomputeWorkers},
		{16, 100, 16},
		{16, 3, 3},
		{4, 0, 4},
	}
	for _, tc := range cases {
		if got := normalizeRecomputeWorkerCount(tc.requested, tc.tasks); got != tc.want {
			t.Fatalf("normalizeRecomputeWorkerCount(%d, %d): got=%d want=%d", tc.requested, tc.tasks, got, tc.want)
		}
	}
}
