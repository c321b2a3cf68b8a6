package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shiftride/internal/directions"
	"shiftride/internal/domain"
	"shiftride/internal/service"
)

// pathFixture wires a PathService over fresh mocks.
type pathFixture struct {
	tripRepo  *MockTripRepository
	shiftRepo *MockShiftRepository
	lockStore *MockLockStore
	provider  *StubProvider
	service   *service.PathService
}

func newPathFixture() *pathFixture {
	tripRepo := NewMockTripRepository()
	shiftRepo := NewMockShiftRepository()
	lockStore := NewMockLockStore()
	provider := NewStubProvider(10 * time.Minute)

	selector := service.NewCandidateSelector(tripRepo)
	builder := service.NewRouteBuilder(provider)

	return &pathFixture{
		tripRepo:  tripRepo,
		shiftRepo: shiftRepo,
		lockStore: lockStore,
		provider:  provider,
		service: service.NewPathService(
			shiftRepo, tripRepo, selector, builder, lockStore, nil),
	}
}

func TestCalculatePath_CommitsFeasibleTrip(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))
	f.provider.SetDuration(ptA, ptB, 10*time.Minute)
	f.provider.SetDuration(ptB, ptC, 20*time.Minute)
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))

	shift, err := f.service.CalculatePath(ctx, "shift-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(shift.Checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(shift.Checkpoints))
	}

	// The trip is claimed with its planned pickup instant.
	trip := f.tripRepo.GetTrip("trip-1")
	if trip.ShiftID != "shift-1" {
		t.Errorf("expected trip matched to shift-1, got %q", trip.ShiftID)
	}
	if !trip.ConfirmedPickup.Equal(start.Add(10 * time.Minute)) {
		t.Errorf("expected confirmed pickup at 09:10, got %s", trip.ConfirmedPickup)
	}

	// The checkpoints are durably committed against the shift.
	stored := f.shiftRepo.GetShift("shift-1")
	if len(stored.Checkpoints) != 2 {
		t.Errorf("expected 2 stored checkpoints, got %d", len(stored.Checkpoints))
	}
}

func TestCalculatePath_SecondCallFails(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))

	if _, err := f.service.CalculatePath(ctx, "shift-1"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	_, err := f.service.CalculatePath(ctx, "shift-1")
	if !errors.Is(err, service.ErrAlreadyCalculated) {
		t.Fatalf("expected ErrAlreadyCalculated, got %v", err)
	}
}

func TestCalculatePath_ShiftNotFound(t *testing.T) {
	ctx := context.Background()

	f := newPathFixture()

	_, err := f.service.CalculatePath(ctx, "shift-missing")
	if !errors.Is(err, service.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestCalculatePath_EmptyShiftID(t *testing.T) {
	ctx := context.Background()

	f := newPathFixture()

	_, err := f.service.CalculatePath(ctx, "")
	if !errors.Is(err, service.ErrInvalidShiftID) {
		t.Fatalf("expected ErrInvalidShiftID, got %v", err)
	}
}

func TestCalculatePath_NoCandidatesLeavesShiftRecalculable(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))

	shift, err := f.service.CalculatePath(ctx, "shift-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shift.Checkpoints) != 0 {
		t.Fatalf("expected no checkpoints, got %d", len(shift.Checkpoints))
	}
	if shift.PathCalculated() {
		t.Error("empty result must not mark the path as calculated")
	}

	// With nothing committed the shift stays eligible for a later attempt.
	if _, err := f.service.CalculatePath(ctx, "shift-1"); err != nil {
		t.Errorf("expected recalculation to proceed, got %v", err)
	}
}

func TestCalculatePath_OracleFailureCommitsNothing(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))
	f.provider.Err = directions.ErrUnavailable

	_, err := f.service.CalculatePath(ctx, "shift-1")
	if !errors.Is(err, service.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}

	if f.tripRepo.MarkMatchedCallCount != 0 {
		t.Errorf("expected no match attempts, got %d", f.tripRepo.MarkMatchedCallCount)
	}
	if f.shiftRepo.CommitCallCount != 0 {
		t.Errorf("expected no commit attempts, got %d", f.shiftRepo.CommitCallCount)
	}
	if f.tripRepo.GetTrip("trip-1").Matched() {
		t.Error("trip must stay unmatched after an aborted build")
	}
}

func TestCalculatePath_LostTripRaceDropsItsCheckpoints(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(3*time.Hour)))
	f.provider.SetDuration(ptA, ptB, 10*time.Minute)
	f.provider.SetDuration(ptB, ptC, 20*time.Minute)
	f.provider.SetDuration(ptC, ptD, 15*time.Minute)
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))
	f.tripRepo.AddTrip(mkRoutedTrip("trip-2", ptC, ptD,
		start, start.Add(90*time.Minute), start.Add(150*time.Minute)))

	// trip-2 is claimed by another shift between selection and commit.
	f.tripRepo.DenyMatch = map[string]bool{"trip-2": true}

	shift, err := f.service.CalculatePath(ctx, "shift-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(shift.Checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints for the surviving trip, got %d", len(shift.Checkpoints))
	}
	for _, cp := range shift.Checkpoints {
		if cp.TripID != "trip-1" {
			t.Errorf("unexpected checkpoint for %s", cp.TripID)
		}
	}
}

func TestCalculatePath_CommitConflictRollsBackClaims(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))
	f.shiftRepo.CommitDenied = true

	_, err := f.service.CalculatePath(ctx, "shift-1")
	if !errors.Is(err, service.ErrPersistenceConflict) {
		t.Fatalf("expected ErrPersistenceConflict, got %v", err)
	}

	if f.tripRepo.ClearMatchCallCount == 0 {
		t.Error("expected claimed trips to be rolled back")
	}
	if f.tripRepo.GetTrip("trip-1").Matched() {
		t.Error("trip must be released after the commit conflict")
	}
}

func TestCalculatePath_HeldLockRejectsConcurrentAttempt(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))

	// Another calculation holds the shift lock.
	if ok, _ := f.lockStore.AcquireShiftLock(ctx, "shift-1", time.Minute); !ok {
		t.Fatal("failed to pre-acquire lock")
	}

	_, err := f.service.CalculatePath(ctx, "shift-1")
	if !errors.Is(err, service.ErrPersistenceConflict) {
		t.Fatalf("expected ErrPersistenceConflict, got %v", err)
	}
}

func TestCalculatePath_MissingShiftWithHeldLock(t *testing.T) {
	ctx := context.Background()

	f := newPathFixture()

	// A stale lock on a shift that does not exist must not mask the lookup.
	if ok, _ := f.lockStore.AcquireShiftLock(ctx, "shift-missing", time.Minute); !ok {
		t.Fatal("failed to pre-acquire lock")
	}

	_, err := f.service.CalculatePath(ctx, "shift-missing")
	if !errors.Is(err, service.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestCalculatePath_LockStoreFailureProceeds(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f := newPathFixture()
	f.shiftRepo.AddShift(mkShift(start, start.Add(2*time.Hour)))
	f.provider.SetDuration(ptA, ptB, 10*time.Minute)
	f.provider.SetDuration(ptB, ptC, 20*time.Minute)
	f.tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))

	// The lock is a fast path only; a broken lock store must not block the
	// calculation.
	f.lockStore.AcquireError = errors.New("connection refused")

	shift, err := f.service.CalculatePath(ctx, "shift-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shift.Checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(shift.Checkpoints))
	}
}

func TestCalculatePath_ConcurrentShiftsNeverDoubleBook(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tripRepo := NewMockTripRepository()
	shiftRepo := NewMockShiftRepository()
	provider := NewStubProvider(10 * time.Minute)
	provider.SetDuration(ptA, ptB, 10*time.Minute)
	provider.SetDuration(ptB, ptC, 20*time.Minute)

	selector := service.NewCandidateSelector(tripRepo)
	builder := service.NewRouteBuilder(provider)
	pathService := service.NewPathService(
		shiftRepo, tripRepo, selector, builder, NewMockLockStore(), nil)

	// Two overlapping shifts compete for the same single trip.
	shiftA := mkShift(start, start.Add(2*time.Hour))
	shiftA.ID = "shift-a"
	shiftB := mkShift(start, start.Add(2*time.Hour))
	shiftB.ID = "shift-b"
	shiftRepo.AddShift(shiftA)
	shiftRepo.AddShift(shiftB)
	tripRepo.AddTrip(mkRoutedTrip("trip-1", ptB, ptC,
		start, start.Add(time.Hour), start.Add(2*time.Hour)))

	var wg sync.WaitGroup
	results := make(map[string]*domain.Shift, 2)
	var mu sync.Mutex
	for _, id := range []string{"shift-a", "shift-b"} {
		wg.Add(1)
		go func(shiftID string) {
			defer wg.Done()
			shift, err := pathService.CalculatePath(ctx, shiftID)
			if err != nil {
				t.Errorf("%s: unexpected error: %v", shiftID, err)
				return
			}
			mu.Lock()
			results[shiftID] = shift
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	trip := tripRepo.GetTrip("trip-1")
	if trip.ShiftID != "shift-a" && trip.ShiftID != "shift-b" {
		t.Fatalf("trip matched to unexpected shift %q", trip.ShiftID)
	}

	winners := 0
	for shiftID, shift := range results {
		if len(shift.Checkpoints) == 0 {
			continue
		}
		winners++
		if shiftID != trip.ShiftID {
			t.Errorf("checkpoints committed on %s but trip matched to %s", shiftID, trip.ShiftID)
		}
		for _, cp := range shift.Checkpoints {
			if cp.TripID != "trip-1" {
				t.Errorf("unexpected checkpoint for %s", cp.TripID)
			}
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one shift to win the trip, got %d", winners)
	}
}
