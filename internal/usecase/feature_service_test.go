package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/feature"
	"github.com/mouss/ligue1-agent/internal/domain/form"
	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/infrastructure/repository/memory"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

func newFeatureService(t *testing.T, provider ForecastProvider) *FeatureService {
	t.Helper()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	forms := NewFormService(matchRepo, memory.NewFormRepository(), logging.NewNop())
	headToHead := NewHeadToHeadService(matchRepo, memory.NewHeadToHeadRepository(), logging.NewNop())
	headToHead.now = func() time.Time {
		return time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
	}
	availability := NewAvailabilityService(memory.NewAvailabilityRepository(memory.SeedAvailability()), logging.NewNop())
	weather := NewWeatherService(memory.NewWeatherRepository(), provider, logging.NewNop())

	return NewFeatureService(forms, headToHead, availability, weather, logging.NewNop())
}

func upcomingFixture() match.Match {
	return match.Match{
		Date:     time.Date(2025, 3, 28, 20, 0, 0, 0, time.UTC),
		HomeTeam: memory.TeamParis,
		AwayTeam: memory.TeamMarseille,
		Season:   2024,
		Status:   match.StatusScheduled,
		Stadium:  "Parc des Princes",
	}
}

func TestFeatureServiceAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("full vector", func(t *testing.T) {
		provider := &stubForecastProvider{forecast: DayForecast{
			TemperatureC:    11,
			PrecipitationMm: 0.4,
			WindSpeedKph:    18,
			Condition:       "Partly cloudy",
		}}
		svc := newFeatureService(t, provider)

		record, err := svc.Assemble(ctx, upcomingFixture())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if record.HomeTeamForm <= 0 || record.HomeTeamForm > 1 {
			t.Fatalf("home form out of range: %v", record.HomeTeamForm)
		}
		if record.AwayTeamForm <= 0 || record.AwayTeamForm > 1 {
			t.Fatalf("away form out of range: %v", record.AwayTeamForm)
		}
		if record.HomeTeamForm <= record.AwayTeamForm {
			t.Fatalf("unbeaten hosts should rate above mixed visitors: home=%v away=%v",
				record.HomeTeamForm, record.AwayTeamForm)
		}

		if record.WeatherTemp != 11 || record.WeatherRain != 0.4 || record.WeatherWind != 18 {
			t.Fatalf("unexpected weather features: %+v", record)
		}
		if record.HomeMissingKeyPlayers != 1 || record.AwayMissingKeyPlayers != 1 {
			t.Fatalf("unexpected availability features: home=%d away=%d",
				record.HomeMissingKeyPlayers, record.AwayMissingKeyPlayers)
		}
		if record.HomeFatigueIndex != 4 || record.AwayFatigueIndex != 4 {
			t.Fatalf("unexpected fatigue: home=%d away=%d", record.HomeFatigueIndex, record.AwayFatigueIndex)
		}
		if record.H2HHomeWins != 1 || record.H2HAwayWins != 0 || record.H2HDraws != 1 {
			t.Fatalf("unexpected head-to-head features: %+v", record)
		}
		if record.H2HHomeGoalsAvg != 2 || record.H2HAwayGoalsAvg != 0.5 {
			t.Fatalf("unexpected head-to-head goal averages: %+v", record)
		}
		if record.HomeWinPct != 100 {
			t.Fatalf("unexpected home win pct: %v", record.HomeWinPct)
		}
	})

	t.Run("teams without history zero-fill", func(t *testing.T) {
		provider := &stubForecastProvider{forecast: DayForecast{TemperatureC: 9}}
		svc := newFeatureService(t, provider)

		m := upcomingFixture()
		m.HomeTeam = "Brest"
		m.AwayTeam = "Toulouse"
		record, err := svc.Assemble(ctx, m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if record.HomeTeamForm != 0 || record.AwayTeamForm != 0 {
			t.Fatalf("expected zero form, got %+v", record)
		}
		if record.H2HHomeWins != 0 || record.H2HAwayWins != 0 || record.H2HDraws != 0 {
			t.Fatalf("expected zero head-to-head, got %+v", record)
		}
		if record.WeatherTemp != 9 {
			t.Fatalf("weather should still be fetched, got %+v", record)
		}
	})

	t.Run("weather failure aborts assembly", func(t *testing.T) {
		provider := &stubForecastProvider{err: errors.New("forecast down")}
		svc := newFeatureService(t, provider)

		if _, err := svc.Assemble(ctx, upcomingFixture()); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing teams rejected", func(t *testing.T) {
		svc := newFeatureService(t, &stubForecastProvider{})

		m := upcomingFixture()
		m.AwayTeam = ""
		if _, err := svc.Assemble(ctx, m); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestConfidence(t *testing.T) {
	t.Run("even matchup sits at the midpoint", func(t *testing.T) {
		got := Confidence(feature.Record{HomeTeamForm: 0.5, AwayTeamForm: 0.5})
		if got != 50 {
			t.Fatalf("unexpected confidence: %v", got)
		}
	})

	t.Run("form gap shifts confidence", func(t *testing.T) {
		strong := Confidence(feature.Record{HomeTeamForm: 0.9, AwayTeamForm: 0.2})
		weak := Confidence(feature.Record{HomeTeamForm: 0.2, AwayTeamForm: 0.9})
		if strong <= 50 || weak >= 50 {
			t.Fatalf("unexpected confidences: strong=%v weak=%v", strong, weak)
		}
	})

	t.Run("head-to-head edge contributes", func(t *testing.T) {
		base := feature.Record{HomeTeamForm: 0.5, AwayTeamForm: 0.5}
		withEdge := base
		withEdge.H2HHomeWins = 4
		withEdge.H2HAwayWins = 1

		if Confidence(withEdge) <= Confidence(base) {
			t.Fatal("a positive head-to-head edge should raise confidence")
		}
	})

	t.Run("clamped to bounds", func(t *testing.T) {
		high := Confidence(feature.Record{HomeTeamForm: 1, AwayTeamForm: 0, H2HHomeWins: 5})
		if high != confidenceCeiling {
			t.Fatalf("unexpected ceiling: %v", high)
		}
		low := Confidence(feature.Record{HomeTeamForm: 0, AwayTeamForm: 1, H2HAwayWins: 5})
		if low != confidenceFloor {
			t.Fatalf("unexpected floor: %v", low)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		record := feature.Record{HomeTeamForm: 0.7, AwayTeamForm: 0.4, H2HHomeWins: 2, H2HDraws: 1}
		if Confidence(record) != Confidence(record) {
			t.Fatal("confidence must be a pure function of the record")
		}
	})
}

func TestFeatureServiceAssembleReusesStoredRecords(t *testing.T) {
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	formRepo := memory.NewFormRepository()
	h2hRepo := memory.NewHeadToHeadRepository()
	forms := NewFormService(matchRepo, formRepo, logging.NewNop())
	headToHead := NewHeadToHeadService(matchRepo, h2hRepo, logging.NewNop())
	availability := NewAvailabilityService(memory.NewAvailabilityRepository(memory.SeedAvailability()), logging.NewNop())
	provider := &stubForecastProvider{forecast: DayForecast{TemperatureC: 9}}
	weather := NewWeatherService(memory.NewWeatherRepository(), provider, logging.NewNop())
	svc := NewFeatureService(forms, headToHead, availability, weather, logging.NewNop())

	m := upcomingFixture()

	// Pre-stored records with values a fresh computation would never
	// produce from the seeded matches.
	stored := form.Record{Team: m.HomeTeam, AsOf: m.Date, Score: 0.25, LastFivePoints: []int{1}}
	if err := formRepo.Upsert(ctx, stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair := headtohead.Record{TeamA: m.HomeTeam, TeamB: m.AwayTeam, TeamBWins: 2, TeamAGoalsAvg: 0.5, TeamBGoalsAvg: 1.5}
	if err := h2hRepo.Upsert(ctx, pair); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := svc.Assemble(ctx, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.HomeTeamForm != 0.25 {
		t.Fatalf("stored home form should be reused, got %v", record.HomeTeamForm)
	}
	if record.H2HAwayWins != 2 || record.H2HHomeWins != 0 {
		t.Fatalf("stored pair stats should be reused, got %+v", record)
	}
	if record.AwayTeamForm <= 0 {
		t.Fatalf("away form without a stored record should be computed, got %v", record.AwayTeamForm)
	}
	if formRepo.Len() != 2 {
		t.Fatalf("only the away form should have been written, repo holds %d records", formRepo.Len())
	}
}
