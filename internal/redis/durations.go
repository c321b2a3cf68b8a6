package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shiftride/internal/domain"
)

// DefaultDurationTTL bounds staleness of cached travel estimates.
const DefaultDurationTTL = 10 * time.Minute

// DurationStore caches travel durations between coordinate pairs in Redis.
type DurationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDurationStore creates a new DurationStore. A non-positive TTL falls
// back to DefaultDurationTTL.
func NewDurationStore(client *redis.Client, ttl time.Duration) *DurationStore {
	if ttl <= 0 {
		ttl = DefaultDurationTTL
	}
	return &DurationStore{client: client, ttl: ttl}
}

// durationKey keys a cached leg by its endpoints, rounded to ~11cm precision.
func durationKey(from, to domain.Coordinate) string {
	return fmt.Sprintf("durations:%.6f,%.6f->%.6f,%.6f", from.Lat, from.Lng, to.Lat, to.Lng)
}

// GetDuration retrieves a cached duration. The second return value is false
// on cache miss.
func (s *DurationStore) GetDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, bool, error) {
	val, err := s.client.Get(ctx, durationKey(from, to)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return time.Duration(val), true, nil
}

// SetDuration stores a duration with the store's TTL.
func (s *DurationStore) SetDuration(ctx context.Context, from, to domain.Coordinate, d time.Duration) error {
	return s.client.Set(ctx, durationKey(from, to), int64(d), s.ttl).Err()
}
