package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shiftride/internal/domain"
	"shiftride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	MarkMatchedCallCount int32
	ClearMatchCallCount  int32

	// Error injection
	CreateError      error
	MarkMatchedError error
	ClearMatchError  error

	// DenyMatch makes MarkMatched report a lost race for the listed trips.
	DenyMatch map[string]bool
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.RiderID == riderID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) FindUnmatchedInWindow(ctx context.Context, start, end time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.Matched() {
			continue
		}
		if !t.WindowOverlaps(start, end) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

// MarkMatched mirrors the compare-and-set in the real store: the assignment
// only succeeds if the trip is still unmatched.
func (m *MockTripRepository) MarkMatched(ctx context.Context, tripID, shiftID string, pickupAt time.Time) (bool, error) {
	atomic.AddInt32(&m.MarkMatchedCallCount, 1)
	if m.MarkMatchedError != nil {
		return false, m.MarkMatchedError
	}
	if m.DenyMatch[tripID] {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if trip.ShiftID != "" {
		return false, nil
	}
	trip.ShiftID = shiftID
	trip.ConfirmedPickup = pickupAt
	return true, nil
}

func (m *MockTripRepository) ClearMatch(ctx context.Context, tripID, shiftID string) error {
	atomic.AddInt32(&m.ClearMatchCallCount, 1)
	if m.ClearMatchError != nil {
		return m.ClearMatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return repository.ErrNotFound
	}
	if trip.ShiftID != shiftID {
		return nil
	}
	trip.ShiftID = ""
	trip.ConfirmedPickup = time.Time{}
	return nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// ──────────────────────────────────────────────
// MOCK SHIFT REPOSITORY
// ──────────────────────────────────────────────

// MockShiftRepository is a mock implementation of ShiftRepository.
type MockShiftRepository struct {
	mu     sync.RWMutex
	shifts map[string]*domain.Shift

	// Counters for verification
	CommitCallCount int32

	// Error injection
	CreateError error
	CommitError error

	// CommitDenied makes CommitCheckpoints report a lost race.
	CommitDenied bool
}

// NewMockShiftRepository creates a new mock shift repository.
func NewMockShiftRepository() *MockShiftRepository {
	return &MockShiftRepository{
		shifts: make(map[string]*domain.Shift),
	}
}

// AddShift adds a shift to the mock repository.
func (m *MockShiftRepository) AddShift(shift *domain.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
}

func (m *MockShiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
	return nil
}

func (m *MockShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shift, ok := m.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *shift
	copy.Checkpoints = append([]domain.Checkpoint(nil), shift.Checkpoints...)
	return &copy, nil
}

func (m *MockShiftRepository) GetAll(ctx context.Context) ([]*domain.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockShiftRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Shift
	for _, s := range m.shifts {
		if s.DriverID == driverID {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CommitCheckpoints mirrors the compare-and-set in the real store: the commit
// only succeeds while the shift has no checkpoints.
func (m *MockShiftRepository) CommitCheckpoints(ctx context.Context, shiftID string, checkpoints []domain.Checkpoint) (bool, error) {
	atomic.AddInt32(&m.CommitCallCount, 1)
	if m.CommitError != nil {
		return false, m.CommitError
	}
	if m.CommitDenied {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[shiftID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if len(shift.Checkpoints) > 0 {
		return false, nil
	}
	shift.Checkpoints = append([]domain.Checkpoint(nil), checkpoints...)
	return true, nil
}

// GetShift returns the stored shift for test assertions.
func (m *MockShiftRepository) GetShift(id string) *domain.Shift {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shifts[id]
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireShiftLock(ctx context.Context, shiftID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[shiftID] {
		return false, nil
	}
	m.locks[shiftID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseShiftLock(ctx context.Context, shiftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, shiftID)
	return nil
}

// ──────────────────────────────────────────────
// STUB DIRECTIONS PROVIDER
// ──────────────────────────────────────────────

// StubProvider is a directions provider backed by a fixed duration matrix.
// Legs not present in the matrix fall back to Default.
type StubProvider struct {
	mu        sync.Mutex
	durations map[[2]domain.Coordinate]time.Duration

	// Default is returned for legs not set explicitly.
	Default time.Duration

	// Err, when set, fails every lookup.
	Err error

	// CallCount counts provider lookups for verification.
	CallCount int32
}

// NewStubProvider creates a stub provider with the given fallback duration.
func NewStubProvider(fallback time.Duration) *StubProvider {
	return &StubProvider{
		durations: make(map[[2]domain.Coordinate]time.Duration),
		Default:   fallback,
	}
}

// SetDuration fixes the travel duration between two points, both directions.
func (p *StubProvider) SetDuration(from, to domain.Coordinate, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.durations[[2]domain.Coordinate{from, to}] = d
	p.durations[[2]domain.Coordinate{to, from}] = d
}

func (p *StubProvider) TravelDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, error) {
	atomic.AddInt32(&p.CallCount, 1)
	if p.Err != nil {
		return 0, p.Err
	}
	if from == to {
		return 0, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.durations[[2]domain.Coordinate{from, to}]; ok {
		return d, nil
	}
	return p.Default, nil
}
