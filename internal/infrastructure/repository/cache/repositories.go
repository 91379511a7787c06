package cache

import (
	"context"
	"time"

	"github.com/mouss/ligue1-agent/internal/domain/form"
	"github.com/mouss/ligue1-agent/internal/domain/headtohead"
	basecache "github.com/mouss/ligue1-agent/internal/platform/cache"
)

// FormRepository fronts form reads with the TTL store so batch feature
// assembly does not hit the database once per match for the same team/date.
type FormRepository struct {
	next  form.Repository
	cache *basecache.Store
}

func NewFormRepository(next form.Repository, cache *basecache.Store) *FormRepository {
	return &FormRepository{next: next, cache: cache}
}

func (r *FormRepository) Get(ctx context.Context, team string, asOf time.Time) (form.Record, bool, error) {
	key := "form:" + team + ":" + asOf.UTC().Format("2006-01-02")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		record, exists, err := r.next.Get(ctx, team, asOf)
		if err != nil {
			return nil, err
		}
		return cachedForm{record: record, exists: exists}, nil
	})
	if err != nil {
		return form.Record{}, false, err
	}

	cached, _ := v.(cachedForm)
	return cached.record, cached.exists, nil
}

func (r *FormRepository) Upsert(ctx context.Context, record form.Record) error {
	if err := r.next.Upsert(ctx, record); err != nil {
		return err
	}
	// A new form row means fresher source data; every cached day for the
	// team is suspect, not only the written key.
	r.cache.DeletePrefix(ctx, "form:"+record.Team+":")
	return nil
}

type cachedForm struct {
	record form.Record
	exists bool
}

// HeadToHeadRepository applies the same read-through caching to pair stats.
type HeadToHeadRepository struct {
	next  headtohead.Repository
	cache *basecache.Store
}

func NewHeadToHeadRepository(next headtohead.Repository, cache *basecache.Store) *HeadToHeadRepository {
	return &HeadToHeadRepository{next: next, cache: cache}
}

func (r *HeadToHeadRepository) Get(ctx context.Context, teamA, teamB string) (headtohead.Record, bool, error) {
	first, second, _ := headtohead.CanonicalPair(teamA, teamB)
	key := "h2h:" + first + "|" + second
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		record, exists, err := r.next.Get(ctx, first, second)
		if err != nil {
			return nil, err
		}
		return cachedHeadToHead{record: record, exists: exists}, nil
	})
	if err != nil {
		return headtohead.Record{}, false, err
	}

	cached, _ := v.(cachedHeadToHead)
	return cached.record, cached.exists, nil
}

func (r *HeadToHeadRepository) Upsert(ctx context.Context, record headtohead.Record) error {
	if err := r.next.Upsert(ctx, record); err != nil {
		return err
	}
	first, second, _ := headtohead.CanonicalPair(record.TeamA, record.TeamB)
	r.cache.Delete(ctx, "h2h:"+first+"|"+second)
	return nil
}

type cachedHeadToHead struct {
	record headtohead.Record
	exists bool
}
