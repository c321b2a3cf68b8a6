package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// ShiftService handles shift operations for drivers.
type ShiftService struct {
	shiftRepo repository.ShiftRepository
	userRepo  repository.UserRepository
}

// NewShiftService creates a new ShiftService.
func NewShiftService(shiftRepo repository.ShiftRepository, userRepo repository.UserRepository) *ShiftService {
	return &ShiftService{shiftRepo: shiftRepo, userRepo: userRepo}
}

// CreateShiftRequest contains the parameters for opening a shift.
type CreateShiftRequest struct {
	DriverID             string
	Start                time.Time
	End                  time.Time
	StartLat             float64
	StartLng             float64
	StartingPositionName string
}

// CreateShift creates a shift with no checkpoints.
func (s *ShiftService) CreateShift(ctx context.Context, req CreateShiftRequest) (*domain.Shift, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	if !req.Start.Before(req.End) {
		return nil, ErrInvalidShiftWindow
	}

	if !validCoordinate(req.StartLat, req.StartLng) {
		return nil, ErrInvalidLocation
	}

	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidDriverID
		}
		return nil, err
	}

	if !driver.IsDriver {
		return nil, ErrNotADriver
	}

	shift := &domain.Shift{
		ID:                   uuid.New().String(),
		DriverID:             req.DriverID,
		Start:                req.Start,
		End:                  req.End,
		StartLat:             req.StartLat,
		StartLng:             req.StartLng,
		StartingPositionName: req.StartingPositionName,
		CreatedAt:            time.Now(),
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// GetShift retrieves a shift with its checkpoints.
func (s *ShiftService) GetShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	if shiftID == "" {
		return nil, ErrInvalidShiftID
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// GetAllShifts retrieves all shifts.
func (s *ShiftService) GetAllShifts(ctx context.Context) ([]*domain.Shift, error) {
	return s.shiftRepo.GetAll(ctx)
}

// GetShiftsByDriver retrieves all shifts operated by a driver.
func (s *ShiftService) GetShiftsByDriver(ctx context.Context, driverID string) ([]*domain.Shift, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.shiftRepo.GetByDriverID(ctx, driverID)
}
