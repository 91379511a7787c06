package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

const headToHeadWindow = 5

type HeadToHeadService struct {
	matchRepo match.Repository
	h2hRepo   headtohead.Repository
	logger    *logging.Logger
	now       func() time.Time
}

func NewHeadToHeadService(matchRepo match.Repository, h2hRepo headtohead.Repository, logger *logging.Logger) *HeadToHeadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HeadToHeadService{
		matchRepo: matchRepo,
		h2hRepo:   h2hRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Compute refreshes pairwise statistics over the teams' last five meetings
// and stores them for the canonical pair. The returned record reads from
// teamA's perspective regardless of stored order. Teams that never met
// yield ok=false and no stored record.
func (s *HeadToHeadService) Compute(ctx context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeadToHeadService.Compute")
	defer span.End()

	teamA = strings.TrimSpace(teamA)
	teamB = strings.TrimSpace(teamB)
	if teamA == "" || teamB == "" {
		return headtohead.Record{}, false, fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	if teamA == teamB {
		return headtohead.Record{}, false, fmt.Errorf("%w: teams must differ", ErrInvalidInput)
	}

	meetings, err := s.matchRepo.ListMeetings(ctx, teamA, teamB, s.now(), headToHeadWindow)
	if err != nil {
		return headtohead.Record{}, false, fmt.Errorf("list meetings %s vs %s: %w", teamA, teamB, err)
	}
	if len(meetings) == 0 {
		return headtohead.Record{}, false, nil
	}

	record := headtohead.Record{
		TeamA:     teamA,
		TeamB:     teamB,
		UpdatedAt: s.now(),
	}
	goalsA, goalsB := 0, 0
	for _, m := range meetings {
		scoredA, scoredB, ok := m.GoalsFor(teamA)
		if !ok {
			continue
		}
		goalsA += scoredA
		goalsB += scoredB
		switch {
		case scoredA > scoredB:
			record.TeamAWins++
			record.LastFiveResults = append(record.LastFiveResults, headtohead.ResultTeamAWin)
		case scoredA < scoredB:
			record.TeamBWins++
			record.LastFiveResults = append(record.LastFiveResults, headtohead.ResultTeamBWin)
		default:
			record.Draws++
			record.LastFiveResults = append(record.LastFiveResults, headtohead.ResultDraw)
		}
	}

	n := float64(len(meetings))
	record.TeamAGoalsAvg = roundTwoDecimals(float64(goalsA) / n)
	record.TeamBGoalsAvg = roundTwoDecimals(float64(goalsB) / n)

	if err := s.h2hRepo.Upsert(ctx, record); err != nil {
		return headtohead.Record{}, false, fmt.Errorf("upsert head to head %s vs %s: %w", teamA, teamB, err)
	}

	s.logger.DebugContext(ctx, "head to head refreshed",
		"team_a", teamA,
		"team_b", teamB,
		"meetings", len(meetings),
	)

	return record, true, nil
}

// Lookup returns the stored record from teamA's perspective without
// recomputing it.
func (s *HeadToHeadService) Lookup(ctx context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeadToHeadService.Lookup")
	defer span.End()

	record, exists, err := s.h2hRepo.Get(ctx, teamA, teamB)
	if err != nil {
		return headtohead.Record{}, false, fmt.Errorf("get head to head %s vs %s: %w", teamA, teamB, err)
	}
	if !exists {
		return headtohead.Record{}, false, nil
	}
	if record.TeamA != teamA {
		record = record.Mirrored()
	}
	return record, true, nil
}

func roundTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
