package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
	nextID  int64
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	repo := &MatchRepository{nextID: 1}
	for _, item := range matches {
		if item.ID == 0 {
			item.ID = repo.nextID
		}
		if item.ID >= repo.nextID {
			repo.nextID = item.ID + 1
		}
		repo.matches = append(repo.matches, item)
	}
	return repo
}

func (r *MatchRepository) ListRecentByTeam(_ context.Context, team string, before time.Time, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if !m.Played() || !m.Date.Before(before) {
			continue
		}
		if m.HomeTeam != team && m.AwayTeam != team {
			continue
		}
		out = append(out, m)
	}
	sortByDateDesc(out)
	return capMatches(out, limit), nil
}

func (r *MatchRepository) ListMeetings(_ context.Context, teamA, teamB string, until time.Time, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if !m.Played() || m.Date.After(until) {
			continue
		}
		direct := m.HomeTeam == teamA && m.AwayTeam == teamB
		reversed := m.HomeTeam == teamB && m.AwayTeam == teamA
		if !direct && !reversed {
			continue
		}
		out = append(out, m)
	}
	sortByDateDesc(out)
	return capMatches(out, limit), nil
}

func (r *MatchRepository) ListVenueForTeam(_ context.Context, team string, home bool, since time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if !m.Played() || m.Date.Before(since) {
			continue
		}
		if home && m.HomeTeam != team {
			continue
		}
		if !home && m.AwayTeam != team {
			continue
		}
		out = append(out, m)
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *MatchRepository) CountForTeamBetween(_ context.Context, team string, from, to time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.matches {
		if !m.Played() {
			continue
		}
		if m.HomeTeam != team && m.AwayTeam != team {
			continue
		}
		if m.Date.After(from) && !m.Date.After(to) {
			count++
		}
	}
	return count, nil
}

func (r *MatchRepository) ListPlayed(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if m.Played() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, from time.Time, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.matches {
		if m.Date.Before(from) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return capMatches(out, limit), nil
}

func (r *MatchRepository) Teams(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range r.matches {
		seen[m.HomeTeam] = struct{}{}
		seen[m.AwayTeam] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MatchRepository) UpsertBatch(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		replaced := false
		if item.FixtureID != nil {
			for i, existing := range r.matches {
				if existing.FixtureID != nil && *existing.FixtureID == *item.FixtureID {
					item.ID = existing.ID
					r.matches[i] = item
					replaced = true
					break
				}
			}
		}
		if !replaced {
			item.ID = r.nextID
			r.nextID++
			r.matches = append(r.matches, item)
		}
	}
	return nil
}

func sortByDateDesc(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Date.After(matches[j].Date) })
}

func capMatches(matches []match.Match, limit int) []match.Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
