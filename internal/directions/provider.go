package directions

import (
	"context"
	"errors"
	"time"

	"shiftride/internal/domain"
)

// ErrUnavailable is returned when the directions backend cannot be reached
// or returns an unusable response. Callers treat it as transient.
var ErrUnavailable = errors.New("directions provider unavailable")

// Provider estimates travel duration between two coordinates. Implementations
// must be deterministic and side-effect free from the caller's point of view;
// retries and caching are the provider's own concern.
type Provider interface {
	TravelDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, error)
}
