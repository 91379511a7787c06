package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/memory"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

type stubForecastProvider struct {
	forecast DayForecast
	err      error
	calls    int
}

func (p *stubForecastProvider) Forecast(_ context.Context, _ string, _ time.Time) (DayForecast, error) {
	p.calls++
	if p.err != nil {
		return DayForecast{}, p.err
	}
	return p.forecast, nil
}

func TestWeatherServiceForMatch(t *testing.T) {
	ctx := context.Background()
	matchDate := time.Date(2025, 3, 28, 20, 0, 0, 0, time.UTC)

	t.Run("miss fetches and stores", func(t *testing.T) {
		repo := memory.NewWeatherRepository()
		provider := &stubForecastProvider{forecast: DayForecast{
			TemperatureC:    12.5,
			PrecipitationMm: 1.2,
			WindSpeedKph:    22,
			Condition:       "Light rain",
		}}
		svc := NewWeatherService(repo, provider, logging.NewNop())

		record, err := svc.ForMatch(ctx, "Parc des Princes", matchDate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.TemperatureC != 12.5 || record.Condition != "Light rain" {
			t.Fatalf("unexpected record: %+v", record)
		}
		if provider.calls != 1 {
			t.Fatalf("provider called %d times, want 1", provider.calls)
		}

		stored, found, err := repo.Get(ctx, "Parc des Princes", matchDate)
		if err != nil || !found {
			t.Fatalf("record not stored: found=%t err=%v", found, err)
		}
		if stored.WindSpeedKph != 22 {
			t.Fatalf("unexpected stored record: %+v", stored)
		}
	})

	t.Run("hit skips the provider", func(t *testing.T) {
		repo := memory.NewWeatherRepository()
		provider := &stubForecastProvider{forecast: DayForecast{TemperatureC: 8}}
		svc := NewWeatherService(repo, provider, logging.NewNop())

		if _, err := svc.ForMatch(ctx, "Parc des Princes", matchDate); err != nil {
			t.Fatalf("first fetch failed: %v", err)
		}
		provider.forecast.TemperatureC = 30

		record, err := svc.ForMatch(ctx, "Parc des Princes", matchDate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.TemperatureC != 8 {
			t.Fatalf("stored record should not refresh, got %+v", record)
		}
		if provider.calls != 1 {
			t.Fatalf("provider called %d times, want 1", provider.calls)
		}
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		repo := memory.NewWeatherRepository()
		provider := &stubForecastProvider{err: errors.New("boom")}
		svc := NewWeatherService(repo, provider, logging.NewNop())

		if _, err := svc.ForMatch(ctx, "Parc des Princes", matchDate); err == nil {
			t.Fatal("expected an error")
		}
		if _, found, _ := repo.Get(ctx, "Parc des Princes", matchDate); found {
			t.Fatal("nothing should be stored after a failed fetch")
		}
	})

	t.Run("empty stadium rejected", func(t *testing.T) {
		svc := NewWeatherService(memory.NewWeatherRepository(), &stubForecastProvider{}, logging.NewNop())

		_, err := svc.ForMatch(ctx, " ", matchDate)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
