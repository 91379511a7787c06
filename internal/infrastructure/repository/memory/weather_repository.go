package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/weather"
)

type WeatherRepository struct {
	mu      sync.RWMutex
	records map[string]weather.Record
}

func NewWeatherRepository() *WeatherRepository {
	return &WeatherRepository{records: make(map[string]weather.Record)}
}

func (r *WeatherRepository) Get(_ context.Context, stadium string, matchDate time.Time) (weather.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[weatherKey(stadium, matchDate)]
	return record, ok, nil
}

func (r *WeatherRepository) Insert(_ context.Context, record weather.Record) error {
	key := weatherKey(record.Stadium, record.MatchDate)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[key]; exists {
		return nil
	}
	r.records[key] = record
	return nil
}

func weatherKey(stadium string, matchDate time.Time) string {
	return stadium + "@" + matchDate.UTC().Format("2006-01-02")
}
