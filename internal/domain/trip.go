package domain

import "time"

// Trip represents a rider's transportation request. A trip starts unmatched
// and is assigned to a shift once a path calculation schedules it.
type Trip struct {
	ID      string
	RiderID string

	FromLat  float64
	FromLng  float64
	FromName string

	ToLat  float64
	ToLng  float64
	ToName string

	// InitialAvailability and EndAvailability bound the pickup instant.
	// Arrival is the deadline by which the dropoff must occur.
	InitialAvailability time.Time
	EndAvailability     time.Time
	Arrival             time.Time

	// ShiftID is empty until the trip is matched into a shift.
	ShiftID string
	// ConfirmedPickup is the planned pickup instant, set at match time.
	ConfirmedPickup time.Time

	CreatedAt time.Time
}

// Matched reports whether the trip has been scheduled into a shift.
func (t *Trip) Matched() bool {
	return t.ShiftID != ""
}

// Origin returns the pickup coordinate.
func (t *Trip) Origin() Coordinate {
	return Coordinate{Lat: t.FromLat, Lng: t.FromLng}
}

// Destination returns the dropoff coordinate.
func (t *Trip) Destination() Coordinate {
	return Coordinate{Lat: t.ToLat, Lng: t.ToLng}
}

// WindowOverlaps reports whether the trip's pickup availability interval
// intersects [start, end] (non-strict on both bounds).
func (t *Trip) WindowOverlaps(start, end time.Time) bool {
	return !t.InitialAvailability.After(end) && !t.EndAvailability.Before(start)
}
