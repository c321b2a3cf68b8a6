package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shiftride/internal/directions"
	"shiftride/internal/domain"
)

// RejectionReason explains why a candidate trip could not be routed.
type RejectionReason string

const (
	// RejectionInfeasibleWindow marks trips with no feasible insertion
	// position: every position pair violates a window, a deadline, or the
	// shift bounds.
	RejectionInfeasibleWindow RejectionReason = "INFEASIBLE_WINDOW"
)

// RejectedTrip pairs a candidate that could not be routed with the reason.
// Rejection is ordinary output, not an error: rejected trips stay unmatched
// and remain eligible for other shifts.
type RejectedTrip struct {
	Trip   *domain.Trip
	Reason RejectionReason
}

// stop is one position in the working route. The anchor stop (the shift's
// starting position at shift start) has no hop type and no trip.
type stop struct {
	hopType domain.HopType
	coord   domain.Coordinate
	name    string
	trip    *domain.Trip
	arrive  time.Time
}

// legKey identifies a travel leg for memoization within a single build.
type legKey struct {
	from domain.Coordinate
	to   domain.Coordinate
}

// RouteBuilder incrementally inserts candidate trips into a time-feasible,
// ordered checkpoint sequence for one shift.
//
// The strategy is greedy time-ordered insertion: candidates sorted by pickup
// availability are inserted one at a time at the position pair minimizing the
// marginal increase in total driving duration, subject to every window and
// deadline constraint. Exact ordering is NP-hard in the number of trips; a
// committed trip being feasible matters more than the route being globally
// optimal, since a late pickup is a hard failure for a rider.
type RouteBuilder struct {
	provider directions.Provider
}

// NewRouteBuilder creates a RouteBuilder over the given directions provider.
func NewRouteBuilder(provider directions.Provider) *RouteBuilder {
	return &RouteBuilder{provider: provider}
}

// Build routes as many candidates as fit into the shift and returns the
// resulting checkpoint sequence in time order, plus the rejected candidates.
// The anchor stop is never materialized as a checkpoint. A directions
// failure aborts the whole build.
func (b *RouteBuilder) Build(ctx context.Context, shift *domain.Shift, candidates []*domain.Trip) ([]domain.Checkpoint, []RejectedTrip, error) {
	legs := make(map[legKey]time.Duration)

	route := []stop{{
		coord:  shift.StartingPosition(),
		name:   shift.StartingPositionName,
		arrive: shift.Start,
	}}

	ordered := append([]*domain.Trip(nil), candidates...)
	sortByAvailability(ordered)

	var rejected []RejectedTrip
	for _, trip := range ordered {
		if trip.Matched() {
			continue
		}
		// A window that never intersects the shift can skip the insertion
		// search, but the trip is still rejected, not silently dropped.
		if !trip.WindowOverlaps(shift.Start, shift.End) {
			rejected = append(rejected, RejectedTrip{Trip: trip, Reason: RejectionInfeasibleWindow})
			continue
		}
		best, err := b.bestInsertion(ctx, shift, route, trip, legs)
		if err != nil {
			return nil, nil, err
		}
		if best == nil {
			rejected = append(rejected, RejectedTrip{Trip: trip, Reason: RejectionInfeasibleWindow})
			continue
		}
		route = best
	}

	// Settle arrival times once more for the committed sequence.
	if _, err := b.simulate(ctx, shift, route, legs); err != nil {
		return nil, nil, err
	}

	checkpoints := make([]domain.Checkpoint, 0, len(route)-1)
	for _, s := range route[1:] {
		checkpoints = append(checkpoints, domain.Checkpoint{
			ID:           uuid.New().String(),
			ShiftID:      shift.ID,
			HopType:      s.hopType,
			Lat:          s.coord.Lat,
			Lng:          s.coord.Lng,
			PositionName: s.name,
			Time:         s.arrive,
			TripID:       s.trip.ID,
			RiderID:      s.trip.RiderID,
		})
	}

	return checkpoints, rejected, nil
}

// bestInsertion evaluates every position pair (i, j) where the trip's pickup
// can go at index i and its dropoff at index j+1, i ≤ j, and returns the
// feasible route with the lowest marginal driving duration. Ties prefer the
// earliest resulting pickup arrival, then the earliest position pair. A nil
// route with nil error means no feasible pair exists.
func (b *RouteBuilder) bestInsertion(ctx context.Context, shift *domain.Shift, route []stop, trip *domain.Trip, legs map[legKey]time.Duration) ([]stop, error) {
	baseDuration, err := b.routeDuration(ctx, route, legs)
	if err != nil {
		return nil, err
	}

	pickup := stop{
		hopType: domain.HopTypePickup,
		coord:   trip.Origin(),
		name:    trip.FromName,
		trip:    trip,
	}
	dropout := stop{
		hopType: domain.HopTypeDropout,
		coord:   trip.Destination(),
		name:    trip.ToName,
		trip:    trip,
	}

	var (
		best       []stop
		bestCost   time.Duration
		bestPickup time.Time
	)

	for i := 1; i <= len(route); i++ {
		for j := i; j <= len(route); j++ {
			trial := make([]stop, 0, len(route)+2)
			trial = append(trial, route[:i]...)
			trial = append(trial, pickup)
			trial = append(trial, route[i:j]...)
			trial = append(trial, dropout)
			trial = append(trial, route[j:]...)

			feasible, err := b.simulate(ctx, shift, trial, legs)
			if err != nil {
				return nil, err
			}
			if !feasible {
				continue
			}

			trialDuration, err := b.routeDuration(ctx, trial, legs)
			if err != nil {
				return nil, err
			}
			cost := trialDuration - baseDuration
			pickupAt := trial[i].arrive

			if best == nil || cost < bestCost || (cost == bestCost && pickupAt.Before(bestPickup)) {
				best = trial
				bestCost = cost
				bestPickup = pickupAt
			}
		}
	}

	return best, nil
}

// simulate recomputes cumulative arrival times in place and reports whether
// the sequence satisfies every constraint: pickups within their availability
// window, dropoffs at or before their deadline, and the final arrival at or
// before the shift end. The driver waits at a pickup reached before the
// trip's earliest availability.
func (b *RouteBuilder) simulate(ctx context.Context, shift *domain.Shift, route []stop, legs map[legKey]time.Duration) (bool, error) {
	route[0].arrive = shift.Start

	for k := 1; k < len(route); k++ {
		travel, err := b.legDuration(ctx, route[k-1].coord, route[k].coord, legs)
		if err != nil {
			return false, err
		}

		arrive := route[k-1].arrive.Add(travel)

		switch route[k].hopType {
		case domain.HopTypePickup:
			if arrive.Before(route[k].trip.InitialAvailability) {
				arrive = route[k].trip.InitialAvailability
			}
			if arrive.After(route[k].trip.EndAvailability) {
				return false, nil
			}
		case domain.HopTypeDropout:
			if arrive.After(route[k].trip.Arrival) {
				return false, nil
			}
		}

		route[k].arrive = arrive
	}

	if route[len(route)-1].arrive.After(shift.End) {
		return false, nil
	}

	return true, nil
}

// routeDuration sums the driving durations along the sequence. Waiting time
// at early pickups is excluded: the cost function measures travel, not idle.
func (b *RouteBuilder) routeDuration(ctx context.Context, route []stop, legs map[legKey]time.Duration) (time.Duration, error) {
	var total time.Duration
	for k := 1; k < len(route); k++ {
		travel, err := b.legDuration(ctx, route[k-1].coord, route[k].coord, legs)
		if err != nil {
			return 0, err
		}
		total += travel
	}
	return total, nil
}

// legDuration memoizes provider lookups for the duration of one build. The
// provider is assumed deterministic, so a leg is only ever fetched once.
func (b *RouteBuilder) legDuration(ctx context.Context, from, to domain.Coordinate, legs map[legKey]time.Duration) (time.Duration, error) {
	key := legKey{from: from, to: to}
	if d, ok := legs[key]; ok {
		return d, nil
	}

	d, err := b.provider.TravelDuration(ctx, from, to)
	if err != nil {
		return 0, err
	}

	legs[key] = d
	return d, nil
}
