package weatherapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/platform/resilience"
	"github.com/mouss/ligue1-agent/internal/usecase"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

var errWeatherAPITransient = crerr.New("weatherapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// StadiumCities maps stadium names to the city queried at the provider.
	// Unknown stadiums fall back to the stadium name itself.
	StadiumCities map[string]string
}

// Client fetches day forecasts from weatherapi.com. It implements
// usecase.ForecastProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	stadiumCities  map[string]string
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
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		stadiumCities:  cfg.StadiumCities,
	}
}

// Forecast returns the day summary for the stadium's city on the given
// date.
func (c *Client) Forecast(ctx context.Context, stadium string, date time.Time) (usecase.DayForecast, error) {
	stadium = strings.TrimSpace(stadium)
	if stadium == "" {
		return usecase.DayForecast{}, fmt.Errorf("stadium is required")
	}

	location := stadium
	if city, ok := c.stadiumCities[stadium]; ok && city != "" {
		location = city
	}

	query := map[string]string{
		"q":    location,
		"dt":   date.UTC().Format("2006-01-02"),
		"days": "1",
	}

	var envelope forecastEnvelope
	if err := c.doJSON(ctx, "/forecast.json", query, &envelope); err != nil {
		return usecase.DayForecast{}, fmt.Errorf("fetch forecast location=%s: %w", location, err)
	}
	if len(envelope.Forecast.ForecastDay) == 0 {
		return usecase.DayForecast{}, fmt.Errorf("provider returned no forecast days for %s", location)
	}

	day := envelope.Forecast.ForecastDay[0].Day
	return usecase.DayForecast{
		TemperatureC:    day.AvgTempC,
		PrecipitationMm: day.TotalPrecipMm,
		WindSpeedKph:    day.MaxWindKph,
		Condition:       day.Condition.Text,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "weatherapi circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: weather provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("key", c.apiKey)

	fullURL := c.baseURL + path + "?" + values.Encode()

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

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errWeatherAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errWeatherAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errWeatherAPITransient, resp.StatusCode, abbreviateBody(raw))
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
	c.logger.WarnContext(ctx, "weatherapi request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errWeatherAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("key") {
		query.Set("key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
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

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type forecastEnvelope struct {
	Forecast forecastBody `json:"forecast"`
}

type forecastBody struct {
	ForecastDay []forecastDay `json:"forecastday"`
}

type forecastDay struct {
	Day daySummary `json:"day"`
}

type daySummary struct {
	AvgTempC      float64      `json:"avgtemp_c"`
	TotalPrecipMm float64      `json:"totalprecip_mm"`
	MaxWindKph    float64      `json:"maxwind_kph"`
	Condition     dayCondition `json:"condition"`
}

type dayCondition struct {
	Text string `json:"text"`
}
