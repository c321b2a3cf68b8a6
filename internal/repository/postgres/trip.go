package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripColumns = `id, rider_id, from_lat, from_lng, from_name, to_lat, to_lng, to_name, initial_availability, end_availability, arrival, shift_id, confirmed_pickup, created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, rider_id, from_lat, from_lng, from_name, to_lat, to_lng, to_name, initial_availability, end_availability, arrival, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.RiderID,
		trip.FromLat,
		trip.FromLng,
		trip.FromName,
		trip.ToLat,
		trip.ToLng,
		trip.ToName,
		trip.InitialAvailability,
		trip.EndAvailability,
		trip.Arrival,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAll retrieves all trips.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY initial_availability ASC`
	return r.queryTrips(ctx, query)
}

// GetByRiderID retrieves all trips requested by a rider.
func (r *TripRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE rider_id = $1 ORDER BY initial_availability ASC`
	return r.queryTrips(ctx, query, riderID)
}

// FindUnmatchedInWindow retrieves unmatched trips whose availability interval
// overlaps [start, end].
func (r *TripRepository) FindUnmatchedInWindow(ctx context.Context, start, end time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE shift_id IS NULL
		  AND initial_availability <= $2
		  AND end_availability >= $1
		ORDER BY initial_availability ASC, id ASC
	`
	return r.queryTrips(ctx, query, start, end)
}

// MarkMatched assigns the trip to a shift, conditional on it being unmatched.
func (r *TripRepository) MarkMatched(ctx context.Context, tripID, shiftID string, pickupAt time.Time) (bool, error) {
	query := `
		UPDATE trips
		SET shift_id = $2, confirmed_pickup = $3
		WHERE id = $1 AND shift_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, tripID, shiftID, pickupAt)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// ClearMatch undoes a MarkMatched made by the given shift.
func (r *TripRepository) ClearMatch(ctx context.Context, tripID, shiftID string) error {
	query := `
		UPDATE trips
		SET shift_id = NULL, confirmed_pickup = NULL
		WHERE id = $1 AND shift_id = $2
	`

	_, err := r.q.ExecContext(ctx, query, tripID, shiftID)
	return err
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var shiftID sql.NullString
	var confirmedPickup sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.RiderID,
		&trip.FromLat,
		&trip.FromLng,
		&trip.FromName,
		&trip.ToLat,
		&trip.ToLng,
		&trip.ToName,
		&trip.InitialAvailability,
		&trip.EndAvailability,
		&trip.Arrival,
		&shiftID,
		&confirmedPickup,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if shiftID.Valid {
		trip.ShiftID = shiftID.String
	}
	if confirmedPickup.Valid {
		trip.ConfirmedPickup = confirmedPickup.Time
	}

	return &trip, nil
}
