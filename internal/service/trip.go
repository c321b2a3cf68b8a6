package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// TripService handles trip requests from riders.
type TripService struct {
	tripRepo repository.TripRepository
	userRepo repository.UserRepository
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository, userRepo repository.UserRepository) *TripService {
	return &TripService{tripRepo: tripRepo, userRepo: userRepo}
}

// CreateTripRequest contains the parameters for scheduling a trip request.
type CreateTripRequest struct {
	RiderID             string
	FromLat             float64
	FromLng             float64
	FromName            string
	ToLat               float64
	ToLng               float64
	ToName              string
	InitialAvailability time.Time
	EndAvailability     time.Time
	Arrival             time.Time
}

// CreateTrip creates an unmatched trip for a rider.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}

	if !validCoordinate(req.FromLat, req.FromLng) || !validCoordinate(req.ToLat, req.ToLng) {
		return nil, ErrInvalidLocation
	}

	// The availability interval bounds the pickup; the arrival deadline must
	// leave room after the latest possible pickup.
	if req.EndAvailability.Before(req.InitialAvailability) || !req.Arrival.After(req.EndAvailability) {
		return nil, ErrInvalidTripWindow
	}

	if _, err := s.userRepo.GetByID(ctx, req.RiderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRiderID
		}
		return nil, err
	}

	trip := &domain.Trip{
		ID:                  uuid.New().String(),
		RiderID:             req.RiderID,
		FromLat:             req.FromLat,
		FromLng:             req.FromLng,
		FromName:            req.FromName,
		ToLat:               req.ToLat,
		ToLng:               req.ToLng,
		ToName:              req.ToName,
		InitialAvailability: req.InitialAvailability,
		EndAvailability:     req.EndAvailability,
		Arrival:             req.Arrival,
		CreatedAt:           time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// GetAllTrips retrieves all trips.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// GetTripsByRider retrieves all trips requested by a rider.
func (s *TripService) GetTripsByRider(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.tripRepo.GetByRiderID(ctx, riderID)
}
