package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/mouss/ligue1-agent/external/apifootball"
	"github.com/mouss/ligue1-agent/external/weatherapi"
	"github.com/mouss/ligue1-agent/internal/config"
	"github.com/mouss/ligue1-agent/internal/domain/form"
	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	cacherepo "github.com/mouss/ligue1-agent/internal/infrastructure/repository/cache"
	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/postgres"
	basecache "github.com/mouss/ligue1-agent/internal/platform/cache"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
	"github.com/mouss/ligue1-agent/internal/platform/resilience"
	"github.com/mouss/ligue1-agent/internal/usecase"
)

// Container holds the wired services shared by all agent commands.
type Container struct {
	Forms        *usecase.FormService
	HeadToHead   *usecase.HeadToHeadService
	Availability *usecase.AvailabilityService
	Weather      *usecase.WeatherService
	Features     *usecase.FeatureService
	Sync         *usecase.SyncService
	Recompute    *usecase.RecomputeService
	Export       *usecase.ExportService

	Matches *postgres.MatchRepository
}

// OpenDB connects to Postgres with OpenTelemetry instrumentation and
// verifies the connection.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, true)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// NewContainer wires repositories, provider clients, and services.
func NewContainer(cfg config.Config, db *sqlx.DB, logger *logging.Logger) *Container {
	if logger == nil {
		logger = logging.Default()
	}

	matchRepo := postgres.NewMatchRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	weatherRepo := postgres.NewWeatherRepository(db)

	var formRepo form.Repository = postgres.NewFormRepository(db)
	var h2hRepo headtohead.Repository = postgres.NewHeadToHeadRepository(db)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		formRepo = cacherepo.NewFormRepository(formRepo, store)
		h2hRepo = cacherepo.NewHeadToHeadRepository(h2hRepo, store)
	}

	fixturesClient := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.FixturesBaseURL,
		APIKey:     cfg.FixturesAPIKey,
		LeagueID:   cfg.FixturesLeagueID,
		Timeout:    cfg.FixturesTimeout,
		MaxRetries: cfg.FixturesMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FixturesCircuitEnabled,
			FailureThreshold: cfg.FixturesCircuitFailureCount,
			OpenTimeout:      cfg.FixturesCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FixturesCircuitHalfOpenMaxReq,
		},
	})

	weatherClient := weatherapi.NewClient(weatherapi.ClientConfig{
		BaseURL:       cfg.WeatherBaseURL,
		APIKey:        cfg.WeatherAPIKey,
		Timeout:       cfg.WeatherTimeout,
		MaxRetries:    cfg.WeatherMaxRetries,
		Logger:        logger,
		StadiumCities: cfg.WeatherStadiumCities,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WeatherCircuitEnabled,
			FailureThreshold: cfg.WeatherCircuitFailureCount,
			OpenTimeout:      cfg.WeatherCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WeatherCircuitHalfOpenMaxReq,
		},
	})

	forms := usecase.NewFormService(matchRepo, formRepo, logger)
	headToHead := usecase.NewHeadToHeadService(matchRepo, h2hRepo, logger)
	availability := usecase.NewAvailabilityService(availabilityRepo, logger)
	weather := usecase.NewWeatherService(weatherRepo, weatherClient, logger)
	features := usecase.NewFeatureService(forms, headToHead, availability, weather, logger)

	return &Container{
		Forms:        forms,
		HeadToHead:   headToHead,
		Availability: availability,
		Weather:      weather,
		Features:     features,
		Sync:         usecase.NewSyncService(fixturesClient, matchRepo, logger),
		Recompute:    usecase.NewRecomputeService(matchRepo, forms, headToHead, logger),
		Export:       usecase.NewExportService(features, logger),
		Matches:      matchRepo,
	}
}
