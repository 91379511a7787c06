package headtohead

import "context"

type Repository interface {
	// Get looks up the record for the canonical pair order of the two teams.
	Get(ctx context.Context, teamA, teamB string) (Record, bool, error)
	// Upsert replaces all fields for the pair; a refresh is a full
	// recompute, never an incremental update.
	Upsert(ctx context.Context, record Record) error
}
