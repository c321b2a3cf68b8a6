package domain

import "time"

// User represents a rider or a driver in the system.
type User struct {
	ID        string
	Name      string
	Surname   string
	Phone     string
	IsDriver  bool
	CreatedAt time.Time
}
