package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

// The in-memory repositories back STORAGE_DRIVER=memory. They store copies
// so callers can never mutate stored state without going through Update.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[habit.ID]; exists {
		return domain.ErrHabitConflict
	}

	habit.Version = 1
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	// Completion fields belong to UpdateCompletions; keep what is stored.
	habit.LastCompletedAt = stored.LastCompletedAt
	habit.CurrentStreak = stored.CurrentStreak
	habit.LongestStreak = stored.LongestStreak

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			clone := *h
			changes = append(changes, &clone)
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})

	return changes, nil
}

func (r *InMemoryHabitRepository) UpdateCompletions(ctx context.Context, id string, last *time.Time, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.RecordCompletions(last, current, longest)
	return nil
}

type InMemoryEntryRepository struct {
	store map[string]*domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]*domain.HabitEntry),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[entry.ID]; exists {
		return domain.ErrEntryConflict
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok || entry.DeletedAt != nil {
		return nil, domain.ErrEntryNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.HabitEntry{}
	for _, e := range r.store {
		if e.HabitID != habitID || e.DeletedAt != nil {
			continue
		}
		if e.CompletionDate.Before(from) || e.CompletionDate.After(to) {
			continue
		}
		clone := *e
		entries = append(entries, &clone)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CompletionDate.After(entries[j].CompletionDate)
	})

	return entries, nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.store[id]
	if !ok || entry.DeletedAt != nil || entry.UserID != userID {
		return domain.ErrEntryNotFound
	}

	now := time.Now().UTC()
	entry.DeletedAt = &now
	entry.UpdatedAt = now
	entry.Version++
	return nil
}

type InMemoryTimerRepository struct {
	store map[string]*domain.Timer

	mu sync.RWMutex
}

func NewInMemoryTimerRepository() *InMemoryTimerRepository {
	return &InMemoryTimerRepository{
		store: make(map[string]*domain.Timer),
	}
}

func (r *InMemoryTimerRepository) Create(ctx context.Context, timer *domain.Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[timer.ID]; exists {
		return domain.ErrTimerConflict
	}

	clone := *timer
	r.store[timer.ID] = &clone
	return nil
}

func (r *InMemoryTimerRepository) GetByID(ctx context.Context, id string) (*domain.Timer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timer, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTimerNotFound
	}
	clone := *timer
	return &clone, nil
}

func (r *InMemoryTimerRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Timer, error) {
	return r.filter(func(t *domain.Timer) bool { return t.UserID == userID }), nil
}

func (r *InMemoryTimerRepository) ListByState(ctx context.Context, state domain.TimerState) ([]*domain.Timer, error) {
	return r.filter(func(t *domain.Timer) bool { return t.State == state }), nil
}

func (r *InMemoryTimerRepository) filter(keep func(*domain.Timer) bool) []*domain.Timer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timers := []*domain.Timer{}
	for _, t := range r.store {
		if keep(t) {
			clone := *t
			timers = append(timers, &clone)
		}
	}

	sort.Slice(timers, func(i, j int) bool {
		return timers[i].CreatedAt.Before(timers[j].CreatedAt)
	})

	return timers
}

func (r *InMemoryTimerRepository) Update(ctx context.Context, timer *domain.Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[timer.ID]
	if !ok {
		return domain.ErrTimerNotFound
	}
	if stored.Version != timer.Version {
		return domain.ErrTimerConflict
	}

	timer.Version++
	clone := *timer
	r.store[timer.ID] = &clone
	return nil
}

func (r *InMemoryTimerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTimerNotFound
	}

	delete(r.store, id)
	return nil
}
