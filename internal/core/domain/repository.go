package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
	ErrEntryNotFound = errors.New("habit entry not found")
	ErrEntryConflict = errors.New("habit entry version conflict")
	ErrTimerNotFound = errors.New("timer not found")
	ErrTimerConflict = errors.New("timer version conflict")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves an active habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all active habits of a user ordered by sort order.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies an existing habit. The stored version must match habit.Version.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] Returns habits created, updated or deleted after since.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateCompletions stores the values derived from the habit's entries
	// without touching the version.
	UpdateCompletions(ctx context.Context, id string, last *time.Time, current, longest int) error
}

type HabitEntryRepository interface {
	// Create persists a new entry to the storage.
	Create(ctx context.Context, entry *HabitEntry) error

	// Delete performs a soft delete. It requires userID to ensure ownership.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) entry by its ID.
	GetByID(ctx context.Context, id string) (*HabitEntry, error)

	// ListByHabitID retrieves active entries of a habit with completion date
	// in [from, to], newest first.
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*HabitEntry, error)
}

type TimerRepository interface {
	Create(ctx context.Context, timer *Timer) error
	GetByID(ctx context.Context, id string) (*Timer, error)
	ListByUserID(ctx context.Context, userID string) ([]*Timer, error)

	// ListByState is used by the timer checker to find RUNNING timers.
	ListByState(ctx context.Context, state TimerState) ([]*Timer, error)

	// Update uses optimistic locking on timer.Version and bumps it on success.
	Update(ctx context.Context, timer *Timer) error

	Delete(ctx context.Context, id string) error
}
