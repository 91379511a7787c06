package match

import (
	"context"
	"time"
)

// Repository exposes match store reads plus the sync upsert path. List
// methods that feed aggregation return played matches only.
type Repository interface {
	// ListRecentByTeam returns played matches for the team strictly before
	// the given instant, most recent first, capped at limit.
	ListRecentByTeam(ctx context.Context, team string, before time.Time, limit int) ([]Match, error)
	// ListMeetings returns played matches between the two teams in either
	// orientation with date <= until, most recent first, capped at limit.
	ListMeetings(ctx context.Context, teamA, teamB string, until time.Time, limit int) ([]Match, error)
	// ListVenueForTeam returns the team's played home (or away) matches
	// since the given instant.
	ListVenueForTeam(ctx context.Context, team string, home bool, since time.Time) ([]Match, error)
	// CountForTeamBetween counts the team's played matches in (from, to).
	CountForTeamBetween(ctx context.Context, team string, from, to time.Time) (int, error)
	ListPlayed(ctx context.Context) ([]Match, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Match, error)
	Teams(ctx context.Context) ([]string, error)
	// UpsertBatch writes the whole batch in one transaction keyed on the
	// external fixture id; on error nothing is committed.
	UpsertBatch(ctx context.Context, matches []Match) error
}
