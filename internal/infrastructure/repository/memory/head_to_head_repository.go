package memory

import (
	"context"
	"sync"

	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
)

type HeadToHeadRepository struct {
	mu      sync.RWMutex
	records map[string]headtohead.Record
}

func NewHeadToHeadRepository() *HeadToHeadRepository {
	return &HeadToHeadRepository{records: make(map[string]headtohead.Record)}
}

func (r *HeadToHeadRepository) Get(_ context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	first, second, _ := headtohead.CanonicalPair(teamA, teamB)

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[first+"|"+second]
	return record, ok, nil
}

func (r *HeadToHeadRepository) Upsert(_ context.Context, record headtohead.Record) error {
	first, second, swapped := headtohead.CanonicalPair(record.TeamA, record.TeamB)
	if swapped {
		record = record.Mirrored()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[first+"|"+second] = record
	return nil
}

func (r *HeadToHeadRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
