package service

import "errors"

var (
	// ErrShiftNotFound is returned when no shift exists with the given id.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrAlreadyCalculated is returned when a path calculation is requested
	// for a shift that already has checkpoints. Calculation is a one-time
	// transition, not a recomputation.
	ErrAlreadyCalculated = errors.New("shift path already calculated")

	// ErrPersistenceConflict is returned when a concurrent commit won the
	// race on the same shift. Callers may treat it like ErrAlreadyCalculated.
	ErrPersistenceConflict = errors.New("concurrent path commit won the race")

	// ErrDirectionsUnavailable is returned when the directions provider
	// fails. The whole calculation aborts with no partial commit.
	ErrDirectionsUnavailable = errors.New("directions provider unavailable")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidShiftID is returned when shift ID is empty.
	ErrInvalidShiftID = errors.New("invalid shift id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidTripWindow is returned when a trip's availability interval
	// or arrival deadline is inconsistent.
	ErrInvalidTripWindow = errors.New("invalid trip window")

	// ErrInvalidShiftWindow is returned when a shift's start is not before
	// its end.
	ErrInvalidShiftWindow = errors.New("invalid shift window")

	// ErrNotADriver is returned when a shift is created for a user that is
	// not registered as a driver.
	ErrNotADriver = errors.New("user is not a driver")
)

// validCoordinate reports whether lat/lng are within geographic range.
func validCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
