package weather

import "time"

// Record is match-day weather for a stadium. Once stored it is never
// refreshed; the first successful fetch wins.
type Record struct {
	Stadium         string
	MatchDate       time.Time
	TemperatureC    float64
	PrecipitationMm float64
	WindSpeedKph    float64
	Condition       string
	FetchedAt       time.Time
}
