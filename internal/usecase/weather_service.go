package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/weather"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// DayForecast is what a forecast provider returns for one stadium day.
type DayForecast struct {
	TemperatureC    float64
	PrecipitationMm float64
	WindSpeedKph    float64
	Condition       string
}

// ForecastProvider fetches a forecast for a stadium on a given day.
type ForecastProvider interface {
	Forecast(ctx context.Context, stadium string, date time.Time) (DayForecast, error)
}

type WeatherService struct {
	repo     weather.Repository
	provider ForecastProvider
	logger   *logging.Logger
	now      func() time.Time
}

func NewWeatherService(repo weather.Repository, provider ForecastProvider, logger *logging.Logger) *WeatherService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WeatherService{repo: repo, provider: provider, logger: logger, now: time.Now}
}

// ForMatch returns the stored conditions for the stadium and match day,
// fetching from the provider only when nothing is stored yet. A stored
// record is never refreshed.
func (s *WeatherService) ForMatch(ctx context.Context, stadium string, matchDate time.Time) (weather.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeatherService.ForMatch")
	defer span.End()

	stadium = strings.TrimSpace(stadium)
	if stadium == "" {
		return weather.Record{}, fmt.Errorf("%w: stadium is required", ErrInvalidInput)
	}
	if matchDate.IsZero() {
		return weather.Record{}, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}

	record, found, err := s.repo.Get(ctx, stadium, matchDate)
	if err != nil {
		return weather.Record{}, fmt.Errorf("get stored conditions stadium=%s: %w", stadium, err)
	}
	if found {
		return record, nil
	}

	forecast, err := s.provider.Forecast(ctx, stadium, matchDate)
	if err != nil {
		return weather.Record{}, fmt.Errorf("fetch forecast stadium=%s: %w", stadium, err)
	}

	record = weather.Record{
		Stadium:         stadium,
		MatchDate:       matchDate,
		TemperatureC:    forecast.TemperatureC,
		PrecipitationMm: forecast.PrecipitationMm,
		WindSpeedKph:    forecast.WindSpeedKph,
		Condition:       forecast.Condition,
		FetchedAt:       s.now().UTC(),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return weather.Record{}, fmt.Errorf("store conditions stadium=%s: %w", stadium, err)
	}

	s.logger.DebugContext(ctx, "stadium conditions fetched",
		"stadium", stadium,
		"condition", record.Condition,
	)

	return record, nil
}
