package weather

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, stadium string, matchDate time.Time) (Record, bool, error)
	// Insert stores the record unless one already exists for the
	// (stadium, date) key; existing records are left untouched.
	Insert(ctx context.Context, record Record) error
}
