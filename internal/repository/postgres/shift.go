package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// ShiftRepository is a PostgreSQL implementation of repository.ShiftRepository.
type ShiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new PostgreSQL shift repository.
func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create persists a new shift with no checkpoints.
func (r *ShiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (id, driver_id, start_at, end_at, start_lat, start_lng, starting_position_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID,
		shift.DriverID,
		shift.Start,
		shift.End,
		shift.StartLat,
		shift.StartLng,
		shift.StartingPositionName,
		shift.CreatedAt,
	)

	return err
}

// GetByID retrieves a shift by ID, with checkpoints in time order.
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	query := `
		SELECT id, driver_id, start_at, end_at, start_lat, start_lng, starting_position_name, created_at
		FROM shifts WHERE id = $1
	`

	var shift domain.Shift
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&shift.ID,
		&shift.DriverID,
		&shift.Start,
		&shift.End,
		&shift.StartLat,
		&shift.StartLng,
		&shift.StartingPositionName,
		&shift.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	checkpoints, err := r.checkpointsByShiftID(ctx, id)
	if err != nil {
		return nil, err
	}
	shift.Checkpoints = checkpoints

	return &shift, nil
}

// GetAll retrieves all shifts.
func (r *ShiftRepository) GetAll(ctx context.Context) ([]*domain.Shift, error) {
	query := `
		SELECT id, driver_id, start_at, end_at, start_lat, start_lng, starting_position_name, created_at
		FROM shifts ORDER BY start_at ASC
	`
	return r.queryShifts(ctx, query)
}

// GetByDriverID retrieves all shifts operated by a driver.
func (r *ShiftRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Shift, error) {
	query := `
		SELECT id, driver_id, start_at, end_at, start_lat, start_lng, starting_position_name, created_at
		FROM shifts WHERE driver_id = $1 ORDER BY start_at ASC
	`
	return r.queryShifts(ctx, query, driverID)
}

// CommitCheckpoints atomically stores the checkpoint sequence, conditional on
// the shift currently having none. The shift row is locked for the duration
// of the transaction so two commits cannot interleave.
func (r *ShiftRepository) CommitCheckpoints(ctx context.Context, shiftID string, checkpoints []domain.Checkpoint) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT true FROM shifts WHERE id = $1 FOR UPDATE`, shiftID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return false, err
	}

	var hasCheckpoints bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM checkpoints WHERE shift_id = $1)`, shiftID,
	).Scan(&hasCheckpoints)
	if err != nil {
		return false, err
	}

	if hasCheckpoints {
		_ = tx.Rollback()
		return false, nil
	}

	insert := `
		INSERT INTO checkpoints (id, shift_id, hop_type, lat, lng, position_name, time, trip_id, rider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, cp := range checkpoints {
		if _, err = tx.ExecContext(ctx, insert,
			cp.ID,
			shiftID,
			cp.HopType,
			cp.Lat,
			cp.Lng,
			cp.PositionName,
			cp.Time,
			cp.TripID,
			cp.RiderID,
		); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

func (r *ShiftRepository) queryShifts(ctx context.Context, query string, args ...any) ([]*domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.DriverID,
			&shift.Start,
			&shift.End,
			&shift.StartLat,
			&shift.StartLng,
			&shift.StartingPositionName,
			&shift.CreatedAt,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, &shift)
	}
	return shifts, rows.Err()
}

// checkpointsByShiftID loads a shift's checkpoints in non-decreasing time
// order, pickups before dropoffs on exact ties.
func (r *ShiftRepository) checkpointsByShiftID(ctx context.Context, shiftID string) ([]domain.Checkpoint, error) {
	query := `
		SELECT id, shift_id, hop_type, lat, lng, position_name, time, trip_id, rider_id
		FROM checkpoints
		WHERE shift_id = $1
		ORDER BY time ASC, hop_type DESC
	`

	rows, err := r.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkpoints []domain.Checkpoint
	for rows.Next() {
		var cp domain.Checkpoint
		if err := rows.Scan(
			&cp.ID,
			&cp.ShiftID,
			&cp.HopType,
			&cp.Lat,
			&cp.Lng,
			&cp.PositionName,
			&cp.Time,
			&cp.TripID,
			&cp.RiderID,
		); err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, rows.Err()
}
