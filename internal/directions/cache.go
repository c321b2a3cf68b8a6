package directions

import (
	"context"
	"time"

	"shiftride/internal/domain"
)

// DurationCache stores travel durations keyed by coordinate pair.
type DurationCache interface {
	GetDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, bool, error)
	SetDuration(ctx context.Context, from, to domain.Coordinate, d time.Duration) error
}

// CachedProvider wraps a Provider with a read-through duration cache. Cache
// errors are ignored: a broken cache degrades to direct lookups.
type CachedProvider struct {
	inner Provider
	cache DurationCache
}

// NewCachedProvider wraps the given provider with the given cache.
func NewCachedProvider(inner Provider, cache DurationCache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

// TravelDuration returns the cached duration if present, otherwise queries
// the wrapped provider and stores the result.
func (p *CachedProvider) TravelDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, error) {
	if d, ok, err := p.cache.GetDuration(ctx, from, to); err == nil && ok {
		return d, nil
	}

	d, err := p.inner.TravelDuration(ctx, from, to)
	if err != nil {
		return 0, err
	}

	_ = p.cache.SetDuration(ctx, from, to, d)
	return d, nil
}

var _ Provider = (*CachedProvider)(nil)
