package store

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory UserRepo used by tests.
type MemoryRepo struct {
	mu       sync.Mutex
	users    map[int64]*User
	counters map[int64]map[string]int

	// FailAll makes every call return ErrUnavailable, simulating a
	// database outage.
	FailAll bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:    make(map[int64]*User),
		counters: make(map[int64]map[string]int),
	}
}

func (r *MemoryRepo) GetUser(_ context.Context, telegramID int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return nil, ErrUnavailable
	}
	u, ok := r.users[telegramID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryRepo) CreateUser(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return ErrUnavailable
	}
	if _, ok := r.users[u.TelegramID]; ok {
		return nil
	}
	copied := *u
	r.users[u.TelegramID] = &copied
	return nil
}

func (r *MemoryRepo) SetState(_ context.Context, telegramID int64, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return ErrUnavailable
	}
	u, ok := r.users[telegramID]
	if !ok {
		return ErrNotFound
	}
	u.State = state
	return nil
}

func (r *MemoryRepo) SetTimeZone(_ context.Context, telegramID int64, tz string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return ErrUnavailable
	}
	u, ok := r.users[telegramID]
	if !ok {
		return ErrNotFound
	}
	u.TimeZone.String = tz
	u.TimeZone.Valid = true
	return nil
}

func (r *MemoryRepo) GetCounter(_ context.Context, telegramID int64, counterID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return 0, ErrUnavailable
	}
	return r.counters[telegramID][counterID], nil
}

func (r *MemoryRepo) EnsureCounter(_ context.Context, telegramID int64, counterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return ErrUnavailable
	}
	if r.counters[telegramID] == nil {
		r.counters[telegramID] = make(map[string]int)
	}
	if _, ok := r.counters[telegramID][counterID]; !ok {
		r.counters[telegramID][counterID] = 0
	}
	return nil
}

func (r *MemoryRepo) SetCounter(_ context.Context, telegramID int64, counterID string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAll {
		return ErrUnavailable
	}
	if r.counters[telegramID] == nil {
		r.counters[telegramID] = make(map[string]int)
	}
	r.counters[telegramID][counterID] = value
	return nil
}
