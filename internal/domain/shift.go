package domain

import "time"

// HopType distinguishes pickup stops from dropoff stops.
type HopType string

const (
	HopTypePickup  HopType = "PICKUP"
	HopTypeDropout HopType = "DROPOUT"
)

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Shift represents a driver's scheduled operating window and route.
type Shift struct {
	ID       string
	DriverID string

	// Start is the earliest departure instant, End the latest return instant.
	Start time.Time
	End   time.Time

	StartLat             float64
	StartLng             float64
	StartingPositionName string

	// Checkpoints is empty until the path calculation commits. Stored and
	// read in non-decreasing Time order.
	Checkpoints []Checkpoint

	CreatedAt time.Time
}

// PathCalculated reports whether the shift's route has been committed.
func (s *Shift) PathCalculated() bool {
	return len(s.Checkpoints) > 0
}

// StartingPosition returns the shift's anchor coordinate.
func (s *Shift) StartingPosition() Coordinate {
	return Coordinate{Lat: s.StartLat, Lng: s.StartLng}
}

// Checkpoint is one stop (pickup or dropoff) in a shift's committed route.
// For every matched trip exactly one PICKUP and one DROPOUT checkpoint exist,
// and the pickup's Time strictly precedes the dropout's Time.
type Checkpoint struct {
	ID           string
	ShiftID      string
	HopType      HopType
	Lat          float64
	Lng          float64
	PositionName string
	Time         time.Time

	// TripID references the trip this stop serves; RiderID is denormalized
	// from that trip.
	TripID  string
	RiderID string
}

// Position returns the checkpoint coordinate.
func (c *Checkpoint) Position() Coordinate {
	return Coordinate{Lat: c.Lat, Lng: c.Lng}
}
