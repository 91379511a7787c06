package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/form"
)

type FormRepository struct {
	mu      sync.RWMutex
	records map[string]form.Record
}

func NewFormRepository() *FormRepository {
	return &FormRepository{records: make(map[string]form.Record)}
}

func (r *FormRepository) Get(_ context.Context, team string, asOf time.Time) (form.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[formKey(team, asOf)]
	return record, ok, nil
}

func (r *FormRepository) Upsert(_ context.Context, record form.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[formKey(record.Team, record.AsOf)] = record
	return nil
}

func (r *FormRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func formKey(team string, asOf time.Time) string {
	return team + "@" + asOf.UTC().Format("2006-01-02")
}
