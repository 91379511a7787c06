package feature

import (
	"reflect"
	"strings"
)

// Record is the flat feature vector handed to the training/prediction
// process. The field set is fixed: absent sub-results are zero-filled so the
// model always receives the same shape.
type Record struct {
	HomeTeamForm          float64 `json:"home_team_form" validate:"gte=0,lte=1"`
	AwayTeamForm          float64 `json:"away_team_form" validate:"gte=0,lte=1"`
	HomeGoalsScoredAvg    float64 `json:"home_goals_scored_avg" validate:"gte=0"`
	AwayGoalsScoredAvg    float64 `json:"away_goals_scored_avg" validate:"gte=0"`
	HomeGoalsConcededAvg  float64 `json:"home_goals_conceded_avg" validate:"gte=0"`
	AwayGoalsConcededAvg  float64 `json:"away_goals_conceded_avg" validate:"gte=0"`
	HomeWinPct            float64 `json:"home_win_pct" validate:"gte=0,lte=100"`
	AwayWinPct            float64 `json:"away_win_pct" validate:"gte=0,lte=100"`
	WeatherTemp           float64 `json:"weather_temp"`
	WeatherRain           float64 `json:"weather_rain" validate:"gte=0"`
	WeatherWind           float64 `json:"weather_wind" validate:"gte=0"`
	HomeMissingKeyPlayers int     `json:"home_missing_key_players" validate:"gte=0"`
	AwayMissingKeyPlayers int     `json:"away_missing_key_players" validate:"gte=0"`
	HomeFatigueIndex      int     `json:"home_fatigue_index" validate:"gte=0"`
	AwayFatigueIndex      int     `json:"away_fatigue_index" validate:"gte=0"`
	H2HHomeWins           int     `json:"h2h_home_wins" validate:"gte=0"`
	H2HAwayWins           int     `json:"h2h_away_wins" validate:"gte=0"`
	H2HDraws              int     `json:"h2h_draws" validate:"gte=0"`
	H2HHomeGoalsAvg       float64 `json:"h2h_home_goals_avg" validate:"gte=0"`
	H2HAwayGoalsAvg       float64 `json:"h2h_away_goals_avg" validate:"gte=0"`
}

// Names enumerates the record's serialized field names in declaration
// order, for consumers that need the schema without a value.
func Names() []string {
	typ := reflect.TypeOf(Record{})
	names := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}
