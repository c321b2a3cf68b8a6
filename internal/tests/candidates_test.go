package tests

import (
	"context"
	"testing"
	"time"

	"shiftride/internal/domain"
	"shiftride/internal/service"
)

func mkTrip(id string, initial, end time.Time) *domain.Trip {
	return &domain.Trip{
		ID:                  id,
		RiderID:             "rider-" + id,
		InitialAvailability: initial,
		EndAvailability:     end,
		Arrival:             end.Add(time.Hour),
	}
}

func TestSelectCandidates_FiltersMatchedTrips(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	matched := mkTrip("trip-matched", start, end)
	matched.ShiftID = "shift-other"
	unmatched := mkTrip("trip-unmatched", start, end)

	candidates := service.SelectCandidates([]*domain.Trip{matched, unmatched}, start, end)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ID != "trip-unmatched" {
		t.Errorf("expected trip-unmatched, got %s", candidates[0].ID)
	}
}

func TestSelectCandidates_FiltersNonOverlappingWindows(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour) // 11:00

	before := mkTrip("trip-before", start.Add(-3*time.Hour), start.Add(-time.Hour))
	after := mkTrip("trip-after", end.Add(time.Hour), end.Add(2*time.Hour))
	inside := mkTrip("trip-inside", start.Add(time.Hour), start.Add(90*time.Minute))

	candidates := service.SelectCandidates([]*domain.Trip{before, after, inside}, start, end)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ID != "trip-inside" {
		t.Errorf("expected trip-inside, got %s", candidates[0].ID)
	}
}

func TestSelectCandidates_BoundaryTouchCounts(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	// Availability starts exactly at the shift end: still an overlap.
	touchEnd := mkTrip("trip-touch-end", end, end.Add(time.Hour))
	// Availability ends exactly at the shift start: still an overlap.
	touchStart := mkTrip("trip-touch-start", start.Add(-time.Hour), start)

	candidates := service.SelectCandidates([]*domain.Trip{touchEnd, touchStart}, start, end)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestSelectCandidates_DeterministicOrder(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	late := mkTrip("trip-a", start.Add(time.Hour), end)
	earlyB := mkTrip("trip-b", start, end)
	earlyA := mkTrip("trip-a2", start, end)

	candidates := service.SelectCandidates([]*domain.Trip{late, earlyB, earlyA}, start, end)

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	// Sorted by initial availability, then trip ID breaking the tie.
	want := []string{"trip-a2", "trip-b", "trip-a"}
	for i, id := range want {
		if candidates[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, candidates[i].ID)
		}
	}
}

func TestCandidateSelector_QueriesStoreAndOrders(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(mkTrip("trip-2", start.Add(30*time.Minute), end))
	tripRepo.AddTrip(mkTrip("trip-1", start, end))
	outside := mkTrip("trip-outside", end.Add(time.Hour), end.Add(2*time.Hour))
	tripRepo.AddTrip(outside)

	selector := service.NewCandidateSelector(tripRepo)

	candidates, err := selector.Select(ctx, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "trip-1" || candidates[1].ID != "trip-2" {
		t.Errorf("unexpected order: %s, %s", candidates[0].ID, candidates[1].ID)
	}
}

func TestCandidateSelector_EmptyPool(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	selector := service.NewCandidateSelector(NewMockTripRepository())

	candidates, err := selector.Select(ctx, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
