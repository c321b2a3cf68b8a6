package service

import (
	"context"
	"errors"
	"log"
	"time"

	"shiftride/internal/directions"
	"shiftride/internal/domain"
	"shiftride/internal/redis"
	"shiftride/internal/repository"
)

// shiftCalcLockTTL bounds how long a crashed calculation can hold the lock.
const shiftCalcLockTTL = 30 * time.Second

// PathService orchestrates a shift's one-time path calculation: candidate
// selection, route building, and the atomic commit of checkpoints and trip
// assignments.
type PathService struct {
	shiftRepo           repository.ShiftRepository
	tripRepo            repository.TripRepository
	selector            *CandidateSelector
	builder             *RouteBuilder
	lockStore           redis.LockStoreInterface
	notificationService *NotificationService
}

// NewPathService creates a new PathService. lockStore may be nil; the lock
// is a fast-path guard and correctness rests on the stores' compare-and-set
// contracts.
func NewPathService(
	shiftRepo repository.ShiftRepository,
	tripRepo repository.TripRepository,
	selector *CandidateSelector,
	builder *RouteBuilder,
	lockStore redis.LockStoreInterface,
	notificationService *NotificationService,
) *PathService {
	return &PathService{
		shiftRepo:           shiftRepo,
		tripRepo:            tripRepo,
		selector:            selector,
		builder:             builder,
		lockStore:           lockStore,
		notificationService: notificationService,
	}
}

// CalculatePath computes and commits the checkpoint sequence for a shift.
// It is idempotent per shift: the first successful call transitions the
// shift, later calls fail with ErrAlreadyCalculated. Rejected trips are not
// an error; they stay unmatched and eligible for other shifts.
func (s *PathService) CalculatePath(ctx context.Context, shiftID string) (*domain.Shift, error) {
	if shiftID == "" {
		return nil, ErrInvalidShiftID
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if shift.PathCalculated() {
		return nil, ErrAlreadyCalculated
	}

	// Fast-path guard against two calculations of the same shift racing.
	// A lock store failure is logged and skipped: correctness rests on the
	// stores' compare-and-set contracts, not on the lock.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireShiftLock(ctx, shiftID, shiftCalcLockTTL)
		switch {
		case err != nil:
			log.Printf("path: shift=%s lock acquire failed, proceeding unlocked: %v", shiftID, err)
		case !locked:
			return nil, ErrPersistenceConflict
		default:
			defer func() {
				_ = s.lockStore.ReleaseShiftLock(ctx, shiftID)
			}()
		}
	}

	candidates, err := s.selector.Select(ctx, shift.Start, shift.End)
	if err != nil {
		return nil, err
	}

	checkpoints, rejected, err := s.builder.Build(ctx, shift, candidates)
	if err != nil {
		if errors.Is(err, directions.ErrUnavailable) {
			return nil, ErrDirectionsUnavailable
		}
		return nil, err
	}

	for _, r := range rejected {
		log.Printf("path: shift=%s trip=%s rejected reason=%s", shift.ID, r.Trip.ID, r.Reason)
	}

	committed, err := s.commit(ctx, shift, checkpoints)
	if err != nil {
		return nil, err
	}

	shift.Checkpoints = committed

	if s.notificationService != nil && shift.PathCalculated() {
		_ = s.notificationService.NotifyShiftPathReady(ctx, shift)
	}

	return shift, nil
}

// commit claims each routed trip with an optimistic compare-and-set, then
// commits the surviving checkpoints against the shift. A trip losing its
// race to another shift is dropped from the result without re-balancing the
// route; losing the shift commit race rolls back every claim this call made.
func (s *PathService) commit(ctx context.Context, shift *domain.Shift, checkpoints []domain.Checkpoint) ([]domain.Checkpoint, error) {
	if len(checkpoints) == 0 {
		return nil, nil
	}

	pickupAt := make(map[string]time.Time)
	tripOrder := make([]string, 0, len(checkpoints)/2)
	for i := range checkpoints {
		cp := &checkpoints[i]
		if cp.HopType != domain.HopTypePickup {
			continue
		}
		pickupAt[cp.TripID] = cp.Time
		tripOrder = append(tripOrder, cp.TripID)
	}

	claimed := make([]string, 0, len(tripOrder))
	matched := make(map[string]bool, len(tripOrder))

	rollback := func() {
		for _, tripID := range claimed {
			if err := s.tripRepo.ClearMatch(ctx, tripID, shift.ID); err != nil {
				log.Printf("path: shift=%s trip=%s clear match failed: %v", shift.ID, tripID, err)
			}
		}
	}

	for _, tripID := range tripOrder {
		ok, err := s.tripRepo.MarkMatched(ctx, tripID, shift.ID, pickupAt[tripID])
		if err != nil {
			rollback()
			return nil, err
		}
		if !ok {
			// Another shift claimed the trip between selection and commit.
			// Its checkpoints are dropped; the route is not re-balanced.
			log.Printf("path: shift=%s trip=%s lost match race, dropping checkpoints", shift.ID, tripID)
			continue
		}
		claimed = append(claimed, tripID)
		matched[tripID] = true
	}

	var committed []domain.Checkpoint
	for _, cp := range checkpoints {
		if matched[cp.TripID] {
			committed = append(committed, cp)
		}
	}

	if len(committed) == 0 {
		return nil, nil
	}

	ok, err := s.shiftRepo.CommitCheckpoints(ctx, shift.ID, committed)
	if err != nil {
		rollback()
		return nil, err
	}
	if !ok {
		rollback()
		return nil, ErrPersistenceConflict
	}

	if s.notificationService != nil {
		for _, tripID := range claimed {
			trip, err := s.tripRepo.GetByID(ctx, tripID)
			if err != nil {
				continue
			}
			_ = s.notificationService.NotifyTripScheduled(ctx, trip, pickupAt[tripID])
		}
	}

	return committed, nil
}
