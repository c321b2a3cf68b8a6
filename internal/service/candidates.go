package service

import (
	"context"
	"sort"
	"time"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// SelectCandidates filters trips down to those eligible for a shift window:
// unmatched trips whose pickup availability interval intersects
// [windowStart, windowEnd], non-strict on both bounds. The result is sorted
// by initial availability ascending, trip ID breaking ties, so downstream
// insertion order is deterministic. No side effects.
func SelectCandidates(trips []*domain.Trip, windowStart, windowEnd time.Time) []*domain.Trip {
	var candidates []*domain.Trip
	for _, trip := range trips {
		if trip.Matched() {
			continue
		}
		if !trip.WindowOverlaps(windowStart, windowEnd) {
			continue
		}
		candidates = append(candidates, trip)
	}

	sortByAvailability(candidates)

	return candidates
}

// sortByAvailability orders trips by initial availability ascending, trip ID
// breaking ties.
func sortByAvailability(trips []*domain.Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].InitialAvailability.Equal(trips[j].InitialAvailability) {
			return trips[i].ID < trips[j].ID
		}
		return trips[i].InitialAvailability.Before(trips[j].InitialAvailability)
	})
}

// CandidateSelector queries the trip store for a shift window's candidates.
type CandidateSelector struct {
	tripRepo repository.TripRepository
}

// NewCandidateSelector creates a new CandidateSelector.
func NewCandidateSelector(tripRepo repository.TripRepository) *CandidateSelector {
	return &CandidateSelector{tripRepo: tripRepo}
}

// Select returns the shift window's candidate trips in deterministic order.
// An empty pool or no overlapping trips yields an empty result, not an error.
func (s *CandidateSelector) Select(ctx context.Context, windowStart, windowEnd time.Time) ([]*domain.Trip, error) {
	trips, err := s.tripRepo.FindUnmatchedInWindow(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	// The store already filters by window; re-applying the predicate keeps
	// the contract independent of any one store implementation.
	return SelectCandidates(trips, windowStart, windowEnd), nil
}
