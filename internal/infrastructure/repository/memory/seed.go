package memory

import (
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/availability"
	"github.com/mouss/ligue1-agent/internal/domain/match"
)

const (
	TeamParis     = "Paris Saint Germain"
	TeamMarseille = "Marseille"
	TeamLyon      = "Lyon"
	TeamMonaco    = "Monaco"
	TeamLille     = "Lille"
	TeamNice      = "Nice"
)

// SeedMatches returns a deterministic fixture history covering the 2024-25
// run-in, oldest first.
func SeedMatches() []match.Match {
	day := func(offset int) time.Time {
		return time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	return []match.Match{
		seedMatch(1001, day(0), TeamParis, TeamMarseille, 3, 0, "Regular Season - 24", "Parc des Princes"),
		seedMatch(1002, day(1), TeamLyon, TeamMonaco, 1, 1, "Regular Season - 24", "Groupama Stadium"),
		seedMatch(1003, day(4), TeamMarseille, TeamParis, 1, 1, "Regular Season - 25", "Stade Velodrome"),
		seedMatch(1004, day(5), TeamMonaco, TeamLille, 2, 0, "Regular Season - 25", "Stade Louis II"),
		seedMatch(1005, day(9), TeamParis, TeamLyon, 2, 1, "Regular Season - 26", "Parc des Princes"),
		seedMatch(1006, day(10), TeamLille, TeamMarseille, 0, 2, "Regular Season - 26", "Stade Pierre Mauroy"),
		seedMatch(1007, day(14), TeamMarseille, TeamMonaco, 2, 2, "Regular Season - 27", "Stade Velodrome"),
		seedMatch(1008, day(15), TeamLyon, TeamLille, 3, 1, "Regular Season - 27", "Groupama Stadium"),
		seedMatch(1009, day(19), TeamParis, TeamMonaco, 1, 0, "Regular Season - 28", "Parc des Princes"),
		seedMatch(1010, day(20), TeamNice, TeamLyon, 0, 0, "Regular Season - 28", "Allianz Riviera"),
		upcomingMatch(1011, day(27), TeamParis, TeamMarseille, "Regular Season - 29", "Parc des Princes"),
		upcomingMatch(1012, day(28), TeamMonaco, TeamNice, "Regular Season - 29", "Stade Louis II"),
	}
}

// SeedAvailability returns availability records aligned with SeedMatches
// dates.
func SeedAvailability() []availability.Record {
	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	ret := date(2025, 4, 2)

	return []availability.Record{
		{
			PlayerName:  "Achraf Dembele",
			Team:        TeamParis,
			Status:      availability.StatusInjured,
			Reason:      "hamstring",
			StartDate:   date(2025, 3, 20),
			ImpactLevel: 5,
			IsKeyPlayer: true,
		},
		{
			PlayerName:     "Jules Toko",
			Team:           TeamParis,
			Status:         availability.StatusSuspended,
			Reason:         "red card",
			StartDate:      date(2025, 3, 25),
			ExpectedReturn: &ret,
			ImpactLevel:    3,
			IsKeyPlayer:    false,
		},
		{
			PlayerName:     "Bilal Nadir",
			Team:           TeamMarseille,
			Status:         availability.StatusDoubtful,
			Reason:         "knock",
			StartDate:      date(2025, 3, 26),
			ExpectedReturn: &ret,
			ImpactLevel:    4,
			IsKeyPlayer:    true,
		},
	}
}

func seedMatch(fixtureID int64, date time.Time, home, away string, homeScore, awayScore int, round, stadium string) match.Match {
	hs, as := homeScore, awayScore
	return match.Match{
		FixtureID: &fixtureID,
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: &hs,
		AwayScore: &as,
		Round:     round,
		Season:    2024,
		Status:    match.StatusFinished,
		Stadium:   stadium,
	}
}

func upcomingMatch(fixtureID int64, date time.Time, home, away, round, stadium string) match.Match {
	return match.Match{
		FixtureID: &fixtureID,
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		Round:     round,
		Season:    2024,
		Status:    match.StatusScheduled,
		Stadium:   stadium,
	}
}
