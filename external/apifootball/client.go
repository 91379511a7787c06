package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/platform/resilience"
	"github.com/mouss/ligue1-agent/internal/usecase"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	defaultLeagueID = 61 // Ligue 1
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	LeagueID       int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches fixtures from the API-Football v3 endpoint. It implements
// usecase.FixtureProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	leagueID       int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	leagueID := cfg.LeagueID
	if leagueID <= 0 {
		leagueID = defaultLeagueID
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		leagueID:       leagueID,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// SeasonFixtures returns every fixture of the league season, played and
// upcoming.
func (c *Client) SeasonFixtures(ctx context.Context, season int) ([]usecase.ExternalFixture, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"league": strconv.Itoa(c.leagueID),
		"season": strconv.Itoa(season),
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures season=%d: %w", season, err)
	}
	if message := flattenProviderErrors(envelope.Errors); message != "" {
		return nil, fmt.Errorf("provider rejected request: %s", message)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		date, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			c.logger.WarnContext(ctx, "skip fixture with unparseable date",
				"fixture_id", item.Fixture.ID,
				"date", item.Fixture.Date,
			)
			continue
		}
		out = append(out, usecase.ExternalFixture{
			ID:        item.Fixture.ID,
			Date:      date,
			Status:    item.Fixture.Status.Short,
			Round:     item.League.Round,
			HomeTeam:  strings.TrimSpace(item.Teams.Home.Name),
			AwayTeam:  strings.TrimSpace(item.Teams.Away.Name),
			HomeGoals: item.Goals.Home,
			AwayGoals: item.Goals.Away,
			Stadium:   strings.TrimSpace(item.Fixture.Venue.Name),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

// flattenProviderErrors tolerates both shapes the provider emits: an empty
// array when there are no errors and a field-to-message object otherwise.
func flattenProviderErrors(errs any) string {
	fields, ok := errs.(map[string]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for field, message := range fields {
		parts = append(parts, fmt.Sprintf("%s: %v", field, message))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type fixturesEnvelope struct {
	Errors   any           `json:"errors"`
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureCore  `json:"fixture"`
	League  leagueInfo   `json:"league"`
	Teams   fixtureTeams `json:"teams"`
	Goals   fixtureGoals `json:"goals"`
}

type fixtureCore struct {
	ID     int64         `json:"id"`
	Date   string        `json:"date"`
	Status fixtureStatus `json:"status"`
	Venue  fixtureVenue  `json:"venue"`
}

type fixtureStatus struct {
	Short string `json:"short"`
}

type fixtureVenue struct {
	Name string `json:"name"`
}

type leagueInfo struct {
	Round string `json:"round"`
}

type fixtureTeams struct {
	Home fixtureTeam `json:"home"`
	Away fixtureTeam `json:"away"`
}

type fixtureTeam struct {
	Name string `json:"name"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
