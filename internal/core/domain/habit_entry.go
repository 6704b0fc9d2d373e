package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEntry = errors.New("invalid habit entry data")
	ErrUnauthorized = errors.New("resource belongs to another user")
)

// HabitEntry is one completion record of a habit.
type HabitEntry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	CompletionDate time.Time `json:"completion_date" db:"completion_date"`
	Value          int       `json:"value" db:"value"`
	Notes          string    `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewHabitEntry(habitID, userID string, date time.Time, value int) *HabitEntry {
	now := time.Now().UTC()

	return &HabitEntry{
		ID:             uuid.NewString(),
		HabitID:        habitID,
		UserID:         userID,
		CompletionDate: date.UTC(),
		Value:          value,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *HabitEntry) Validate() error {
	if strings.TrimSpace(e.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.Value < 0 {
		return fmt.Errorf("%w: value cannot be negative", ErrInvalidEntry)
	}
	if e.CompletionDate.IsZero() {
		return fmt.Errorf("%w: completion_date is required", ErrInvalidEntry)
	}
	return nil
}
