package availability

import (
	"context"
	"time"
)

type Repository interface {
	// ListUnavailable returns records whose window covers the date;
	// keyOnly restricts the result to key players.
	ListUnavailable(ctx context.Context, team string, date time.Time, keyOnly bool) ([]Record, error)
	Insert(ctx context.Context, record Record) (int64, error)
	// SetExpectedReturn reports found=false when no record has the id.
	SetExpectedReturn(ctx context.Context, id int64, returnDate time.Time) (bool, error)
}
