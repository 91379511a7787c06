package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"
	recomputeStatusSkipped = "skipped"

	recomputeKindForm       = "form"
	recomputeKindHeadToHead = "head_to_head"

	defaultRecomputeWorkers = 8
)

type RecomputeInput struct {
	MaxWorkers int
}

type RecomputeResult struct {
	TaskCount    int                   `json:"task_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	WorkerCount  int                   `json:"worker_count"`
	Tasks        []RecomputeTaskResult `json:"tasks"`
}

type RecomputeTaskResult struct {
	Kind       string `json:"kind"`
	Subject    string `json:"subject"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type recomputeTask struct {
	kind    string
	subject string
	team    string
	asOf    time.Time
	teamA   string
	teamB   string
}

// RecomputeService rebuilds every derived aggregate from the raw match
// store. Each task is idempotent, so reruns and overlapping workers are
// safe.
type RecomputeService struct {
	matchRepo  match.Repository
	forms      *FormService
	headToHead *HeadToHeadService
	logger     *logging.Logger
}

func NewRecomputeService(
	matchRepo match.Repository,
	forms *FormService,
	headToHead *HeadToHeadService,
	logger *logging.Logger,
) *RecomputeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecomputeService{
		matchRepo:  matchRepo,
		forms:      forms,
		headToHead: headToHead,
		logger:     logger,
	}
}

// Run recomputes team form for both sides at every played-match date plus
// head-to-head statistics for every pair that has met, over a bounded
// worker pool.
func (s *RecomputeService) Run(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.Run")
	defer span.End()

	played, err := s.matchRepo.ListPlayed(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list played matches: %w", err)
	}

	tasks := buildRecomputeTasks(played)
	workerCount := normalizeRecomputeWorkerCount(input.MaxWorkers, len(tasks))

	result := RecomputeResult{
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
		Tasks:       make([]RecomputeTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	results := make(chan RecomputeTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecomputeTaskResult{
				Kind:    task.kind,
				Subject: task.subject,
			}

			status, message := s.runRecomputeTask(ctx, task)
			row.Status = status
			row.Message = message
			row.DurationMs = time.Since(start).Milliseconds()

			switch status {
			case recomputeStatusSuccess:
				successCount.Add(1)
			case recomputeStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RecomputeResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].Kind != result.Tasks[j].Kind {
			return result.Tasks[i].Kind < result.Tasks[j].Kind
		}
		return result.Tasks[i].Subject < result.Tasks[j].Subject
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "recompute finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)

	return result, nil
}

func (s *RecomputeService) runRecomputeTask(ctx context.Context, task recomputeTask) (string, string) {
	switch task.kind {
	case recomputeKindForm:
		// Form is computed from matches strictly before the as-of instant,
		// so the match being walked does not feed its own pre-match form.
		_, ok, err := s.forms.Compute(ctx, task.team, task.asOf)
		if err != nil {
			return recomputeStatusFailed, err.Error()
		}
		if !ok {
			return recomputeStatusSkipped, "no prior matches"
		}
		return recomputeStatusSuccess, ""
	case recomputeKindHeadToHead:
		_, ok, err := s.headToHead.Compute(ctx, task.teamA, task.teamB)
		if err != nil {
			return recomputeStatusFailed, err.Error()
		}
		if !ok {
			return recomputeStatusSkipped, "no meetings"
		}
		return recomputeStatusSuccess, ""
	default:
		return recomputeStatusFailed, fmt.Sprintf("unknown task kind %q", task.kind)
	}
}

func buildRecomputeTasks(played []match.Match) []recomputeTask {
	formSeen := make(map[string]struct{})
	pairSeen := make(map[string]struct{})
	tasks := make([]recomputeTask, 0, len(played)*2)

	addForm := func(team string, asOf time.Time) {
		day := asOf.UTC().Format("2006-01-02")
		key := team + "@" + day
		if _, dup := formSeen[key]; dup {
			return
		}
		formSeen[key] = struct{}{}
		tasks = append(tasks, recomputeTask{
			kind:    recomputeKindForm,
			subject: key,
			team:    team,
			asOf:    asOf,
		})
	}

	for _, m := range played {
		addForm(m.HomeTeam, m.Date)
		addForm(m.AwayTeam, m.Date)

		first, second, _ := headtohead.CanonicalPair(m.HomeTeam, m.AwayTeam)
		pairKey := first + "|" + second
		if _, dup := pairSeen[pairKey]; dup {
			continue
		}
		pairSeen[pairKey] = struct{}{}
		tasks = append(tasks, recomputeTask{
			kind:    recomputeKindHeadToHead,
			subject: pairKey,
			teamA:   first,
			teamB:   second,
		})
	}

	return tasks
}

func normalizeRecomputeWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultRecomputeWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
