package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/availability"
)

type AvailabilityRepository struct {
	mu      sync.RWMutex
	records []availability.Record
	nextID  int64
}

func NewAvailabilityRepository(records []availability.Record) *AvailabilityRepository {
	repo := &AvailabilityRepository{nextID: 1}
	for _, item := range records {
		if item.ID == 0 {
			item.ID = repo.nextID
		}
		if item.ID >= repo.nextID {
			repo.nextID = item.ID + 1
		}
		repo.records = append(repo.records, item)
	}
	return repo
}

func (r *AvailabilityRepository) ListUnavailable(_ context.Context, team string, date time.Time, keyOnly bool) ([]availability.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []availability.Record
	for _, record := range r.records {
		if record.Team != team {
			continue
		}
		if keyOnly && !record.IsKeyPlayer {
			continue
		}
		if !record.CoversDate(date) {
			continue
		}
		out = append(out, record)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ImpactLevel != out[j].ImpactLevel {
			return out[i].ImpactLevel > out[j].ImpactLevel
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out, nil
}

func (r *AvailabilityRepository) Insert(_ context.Context, record availability.Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, record)
	return record.ID, nil
}

func (r *AvailabilityRepository) SetExpectedReturn(_ context.Context, id int64, returnDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			ret := returnDate
			r.records[i].ExpectedReturn = &ret
			return true, nil
		}
	}
	return false, nil
}
