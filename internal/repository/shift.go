package repository

import (
	"context"

	"shiftride/internal/domain"
)

// ShiftRepository defines the persistence operations for shifts and their
// checkpoints.
type ShiftRepository interface {
	// Create persists a new shift with no checkpoints.
	Create(ctx context.Context, shift *domain.Shift) error

	// GetByID retrieves a shift by ID, with checkpoints in time order.
	GetByID(ctx context.Context, id string) (*domain.Shift, error)

	// GetAll retrieves all shifts.
	GetAll(ctx context.Context) ([]*domain.Shift, error)

	// GetByDriverID retrieves all shifts operated by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Shift, error)

	// CommitCheckpoints atomically stores the shift's checkpoint sequence,
	// conditional on the shift currently having no checkpoints. Returns
	// false if a concurrent commit won the race.
	CommitCheckpoints(ctx context.Context, shiftID string, checkpoints []domain.Checkpoint) (bool, error)
}
