package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/platform/resilience"
)

const fixturesPayload = `{
	"errors": [],
	"response": [
		{
			"fixture": {
				"id": 1035045,
				"date": "2025-08-17T20:45:00+00:00",
				"status": {"short": "FT"},
				"venue": {"name": "Parc des Princes"}
			},
			"league": {"round": "Regular Season - 1"},
			"teams": {
				"home": {"name": "Paris Saint Germain"},
				"away": {"name": "Nice"}
			},
			"goals": {"home": 2, "away": 0}
		},
		{
			"fixture": {
				"id": 1035046,
				"date": "2025-08-18T18:00:00+00:00",
				"status": {"short": "NS"},
				"venue": {"name": "Groupama Stadium"}
			},
			"league": {"round": "Regular Season - 1"},
			"teams": {
				"home": {"name": "Lyon"},
				"away": {"name": "Lille"}
			},
			"goals": {"home": null, "away": null}
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		LeagueID:   61,
		MaxRetries: retries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Second,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestSeasonFixtures(t *testing.T) {
	var gotQuery atomic.Value
	var gotKey atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fixtures", r.URL.Path)
		gotQuery.Store(r.URL.RawQuery)
		gotKey.Store(r.Header.Get("x-apisports-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	})

	client := newTestClient(t, handler, 0)
	fixtures, err := client.SeasonFixtures(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	require.Equal(t, "league=61&season=2025", gotQuery.Load())
	require.Equal(t, "test-key", gotKey.Load())

	first := fixtures[0]
	require.Equal(t, int64(1035045), first.ID)
	require.Equal(t, "FT", first.Status)
	require.Equal(t, "Paris Saint Germain", first.HomeTeam)
	require.Equal(t, "Nice", first.AwayTeam)
	require.Equal(t, "Parc des Princes", first.Stadium)
	require.Equal(t, time.Date(2025, 8, 17, 20, 45, 0, 0, time.UTC), first.Date.UTC())
	require.NotNil(t, first.HomeGoals)
	require.Equal(t, 2, *first.HomeGoals)

	second := fixtures[1]
	require.Equal(t, "NS", second.Status)
	require.Nil(t, second.HomeGoals)
	require.Nil(t, second.AwayGoals)
}

func TestSeasonFixturesProviderError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": {"token": "Error/Missing application key."}, "response": []}`))
	})

	client := newTestClient(t, handler, 0)
	_, err := client.SeasonFixtures(context.Background(), 2025)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token")
}

func TestSeasonFixturesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	})

	client := newTestClient(t, handler, 2)
	fixtures, err := client.SeasonFixtures(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	require.Equal(t, int32(2), calls.Load())
}

func TestSeasonFixturesNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestClient(t, handler, 3)
	_, err := client.SeasonFixtures(context.Background(), 2025)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load(), "forbidden responses must not be retried")
}

func TestSeasonFixturesValidatesSeason(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), 0)
	_, err := client.SeasonFixtures(context.Background(), 0)
	require.Error(t, err)
}
