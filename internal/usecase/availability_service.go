package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/availability"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// TeamAvailability is the key-player summary consumed by feature assembly.
type TeamAvailability struct {
	MissingKeyPlayers int
	Players           []string
}

type AvailabilityService struct {
	repo   availability.Repository
	logger *logging.Logger
}

func NewAvailabilityService(repo availability.Repository, logger *logging.Logger) *AvailabilityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityService{repo: repo, logger: logger}
}

// MissingKeyPlayers reports which key players are out for the team on the
// given date. A fully available squad is the zero result, not an error.
func (s *AvailabilityService) MissingKeyPlayers(ctx context.Context, team string, date time.Time) (TeamAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.MissingKeyPlayers")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return TeamAvailability{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	records, err := s.repo.ListUnavailable(ctx, team, date, true)
	if err != nil {
		return TeamAvailability{}, fmt.Errorf("list unavailable key players team=%s: %w", team, err)
	}

	out := TeamAvailability{MissingKeyPlayers: len(records)}
	for _, record := range records {
		out.Players = append(out.Players, record.PlayerName)
	}
	return out, nil
}

// ListUnavailable returns every unavailable player for the team on the
// date, key or not.
func (s *AvailabilityService) ListUnavailable(ctx context.Context, team string, date time.Time) ([]availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.ListUnavailable")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	records, err := s.repo.ListUnavailable(ctx, team, date, false)
	if err != nil {
		return nil, fmt.Errorf("list unavailable players team=%s: %w", team, err)
	}
	return records, nil
}

// Report registers a new unavailability window for a player.
func (s *AvailabilityService) Report(ctx context.Context, record availability.Record) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.Report")
	defer span.End()

	record.PlayerName = strings.TrimSpace(record.PlayerName)
	record.Team = strings.TrimSpace(record.Team)
	record.Status = strings.ToLower(strings.TrimSpace(record.Status))

	if record.PlayerName == "" || record.Team == "" {
		return 0, fmt.Errorf("%w: player name and team are required", ErrInvalidInput)
	}
	if !availability.ValidStatus(record.Status) {
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, record.Status)
	}
	if record.ImpactLevel < 1 || record.ImpactLevel > 5 {
		return 0, fmt.Errorf("%w: impact level must be within 1..5", ErrInvalidInput)
	}
	if record.StartDate.IsZero() {
		return 0, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if record.ExpectedReturn != nil && record.ExpectedReturn.Before(record.StartDate) {
		return 0, fmt.Errorf("%w: expected return before start date", ErrInvalidInput)
	}

	id, err := s.repo.Insert(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("insert availability player=%s: %w", record.PlayerName, err)
	}

	s.logger.InfoContext(ctx, "player unavailability reported",
		"player", record.PlayerName,
		"team", record.Team,
		"status", record.Status,
	)

	return id, nil
}

// ClearReturn closes an open window by setting the expected return date.
func (s *AvailabilityService) ClearReturn(ctx context.Context, id int64, returnDate time.Time) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.ClearReturn")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}
	if returnDate.IsZero() {
		return fmt.Errorf("%w: return date is required", ErrInvalidInput)
	}

	found, err := s.repo.SetExpectedReturn(ctx, id, returnDate)
	if err != nil {
		return fmt.Errorf("set expected return id=%d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: availability record %d", ErrNotFound, id)
	}
	return nil
}
