package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftride/internal/domain"
	"shiftride/internal/service"
)

func validShiftRequest(start time.Time) service.CreateShiftRequest {
	return service.CreateShiftRequest{
		DriverID:             "driver-1",
		Start:                start,
		End:                  start.Add(4 * time.Hour),
		StartLat:             0,
		StartLng:             0,
		StartingPositionName: "Depot",
	}
}

func TestCreateShift_Success(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	shiftRepo := NewMockShiftRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "driver-1", Name: "Bo", Phone: "+200", IsDriver: true})

	shiftService := service.NewShiftService(shiftRepo, userRepo)

	shift, err := shiftService.CreateShift(ctx, validShiftRequest(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if shift.ID == "" {
		t.Error("expected generated shift ID")
	}
	if shift.PathCalculated() {
		t.Error("new shift must have no checkpoints")
	}
	if stored := shiftRepo.GetShift(shift.ID); stored == nil {
		t.Error("shift not persisted")
	}
}

func TestCreateShift_RequiresDriverRole(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "driver-1", Name: "Bo", Phone: "+200", IsDriver: false})

	shiftService := service.NewShiftService(NewMockShiftRepository(), userRepo)

	_, err := shiftService.CreateShift(ctx, validShiftRequest(start))
	if !errors.Is(err, service.ErrNotADriver) {
		t.Fatalf("expected ErrNotADriver, got %v", err)
	}
}

func TestCreateShift_UnknownDriver(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	shiftService := service.NewShiftService(NewMockShiftRepository(), NewMockUserRepository())

	_, err := shiftService.CreateShift(ctx, validShiftRequest(start))
	if !errors.Is(err, service.ErrInvalidDriverID) {
		t.Fatalf("expected ErrInvalidDriverID, got %v", err)
	}
}

func TestCreateShift_InvalidWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "driver-1", Name: "Bo", Phone: "+200", IsDriver: true})

	shiftService := service.NewShiftService(NewMockShiftRepository(), userRepo)

	req := validShiftRequest(start)
	req.End = start // zero-length window

	_, err := shiftService.CreateShift(ctx, req)
	if !errors.Is(err, service.ErrInvalidShiftWindow) {
		t.Fatalf("expected ErrInvalidShiftWindow, got %v", err)
	}
}
