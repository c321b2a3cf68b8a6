package repository

import (
	"context"
	"time"

	"shiftride/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves all trips.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// GetByRiderID retrieves all trips requested by a rider.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error)

	// FindUnmatchedInWindow retrieves unmatched trips whose pickup
	// availability interval overlaps [start, end].
	FindUnmatchedInWindow(ctx context.Context, start, end time.Time) ([]*domain.Trip, error)

	// MarkMatched assigns the trip to a shift and records the planned pickup
	// instant, conditional on the trip still being unmatched. Returns false
	// if another shift already claimed the trip.
	MarkMatched(ctx context.Context, tripID, shiftID string, pickupAt time.Time) (bool, error)

	// ClearMatch undoes a MarkMatched made by the given shift. Used to roll
	// back provisional assignments when the shift commit loses its race.
	ClearMatch(ctx context.Context, tripID, shiftID string) error
}
