package form

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, team string, asOf time.Time) (Record, bool, error)
	// Upsert replaces any prior record for (team, as-of date).
	Upsert(ctx context.Context, record Record) error
}
