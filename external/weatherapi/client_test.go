package weatherapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/platform/resilience"
	"github.com/mouss/ligue1-agent/internal/usecase"
)

const forecastPayload = `{
	"forecast": {
		"forecastday": [
			{
				"day": {
					"avgtemp_c": 11.0,
					"totalprecip_mm": 0.4,
					"maxwind_kph": 18.0,
					"condition": {"text": "Partly cloudy"}
				}
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.Handler, cfg ClientConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.HTTPClient = srv.Client()
	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.CircuitBreaker == (resilience.CircuitBreakerConfig{}) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Second,
			HalfOpenMaxReq:   1,
		}
	}
	return NewClient(cfg)
}

func TestForecast(t *testing.T) {
	var gotPath atomic.Value
	var gotQuery atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastPayload))
	})

	client := newTestClient(t, handler, ClientConfig{
		StadiumCities: map[string]string{"Parc des Princes": "Paris"},
	})

	date := time.Date(2025, 3, 28, 20, 45, 0, 0, time.UTC)
	forecast, err := client.Forecast(context.Background(), "Parc des Princes", date)
	require.NoError(t, err)

	require.Equal(t, "/forecast.json", gotPath.Load())
	query := gotQuery.Load().(url.Values)
	require.Equal(t, "Paris", query.Get("q"))
	require.Equal(t, "2025-03-28", query.Get("dt"))
	require.Equal(t, "test-key", query.Get("key"))

	require.Equal(t, usecase.DayForecast{
		TemperatureC:    11.0,
		PrecipitationMm: 0.4,
		WindSpeedKph:    18.0,
		Condition:       "Partly cloudy",
	}, forecast)
}

func TestForecastUnknownStadiumFallsBackToName(t *testing.T) {
	var gotLocation atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocation.Store(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastPayload))
	})

	client := newTestClient(t, handler, ClientConfig{})
	_, err := client.Forecast(context.Background(), "Stade Oceane", time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "Stade Oceane", gotLocation.Load())
}

func TestForecastEmptyForecastDays(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"forecast": {"forecastday": []}}`))
	})

	client := newTestClient(t, handler, ClientConfig{})
	_, err := client.Forecast(context.Background(), "Parc des Princes", time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no forecast days")
}

func TestForecastRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastPayload))
	})

	client := newTestClient(t, handler, ClientConfig{MaxRetries: 2})
	_, err := client.Forecast(context.Background(), "Parc des Princes", time.Now())
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestForecastCircuitBreakerOpens(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		date := time.Date(2025, 3, 20+i, 0, 0, 0, 0, time.UTC)
		_, err := client.Forecast(context.Background(), "Parc des Princes", date)
		require.Error(t, err)
	}

	_, err := client.Forecast(context.Background(), "Parc des Princes", time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestForecastRequiresStadium(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), ClientConfig{})
	_, err := client.Forecast(context.Background(), "  ", time.Now())
	require.Error(t, err)
}

func TestRedactAPIURL(t *testing.T) {
	redacted := redactAPIURL("https://api.weatherapi.com/v1/forecast.json?dt=2025-03-28&key=secret&q=Paris")
	require.NotContains(t, redacted, "secret")
	require.Contains(t, redacted, "key=REDACTED")
}
