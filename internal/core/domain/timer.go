package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTimerLabelEmpty        = errors.New("timer label cannot be empty")
	ErrTimerInvalidDuration   = errors.New("timer duration must be between 1ms and 7 days")
	ErrInvalidTimerTransition = errors.New("invalid timer state transition")
)

// MaxTimerDuration keeps duration_ms far below the int64 nanosecond range of
// time.Duration.
const MaxTimerDuration = 7 * 24 * time.Hour

type TimerState string

const (
	TimerStopped   TimerState = "STOPPED"
	TimerRunning   TimerState = "RUNNING"
	TimerPaused    TimerState = "PAUSED"
	TimerCompleted TimerState = "COMPLETED"
)

// TimerSnapshot is the immutable input of the elapsed-time calculator.
type TimerSnapshot struct {
	State               TimerState
	StartTime           *time.Time
	PauseTime           *time.Time
	AccumulatedPausedMs int64
	DurationMs          int64
}

type Timer struct {
	ID                  string     `json:"id" db:"id"`
	UserID              string     `json:"user_id" db:"user_id"`
	Label               string     `json:"label" db:"label"`
	State               TimerState `json:"state" db:"state"`
	StartTime           *time.Time `json:"start_time,omitempty" db:"start_time"`
	PauseTime           *time.Time `json:"pause_time,omitempty" db:"pause_time"`
	AccumulatedPausedMs int64      `json:"accumulated_paused_ms" db:"accumulated_paused_ms"`
	DurationMs          int64      `json:"duration_ms" db:"duration_ms"`
	Version             int        `json:"version" db:"version"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

func NewTimer(userID, label string, duration time.Duration) (*Timer, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrTimerLabelEmpty
	}

	if duration <= 0 || duration > MaxTimerDuration {
		return nil, ErrTimerInvalidDuration
	}

	now := time.Now().UTC()

	return &Timer{
		ID:         uuid.NewString(),
		UserID:     userID,
		Label:      label,
		State:      TimerStopped,
		DurationMs: duration.Milliseconds(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (t *Timer) Snapshot() TimerSnapshot {
	return TimerSnapshot{
		State:               t.State,
		StartTime:           t.StartTime,
		PauseTime:           t.PauseTime,
		AccumulatedPausedMs: t.AccumulatedPausedMs,
		DurationMs:          t.DurationMs,
	}
}

func (t *Timer) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s a %s timer", ErrInvalidTimerTransition, action, strings.ToLower(string(t.State)))
}

// Start begins a fresh run and discards any previous pause bookkeeping.
func (t *Timer) Start(now time.Time) error {
	if t.State != TimerStopped && t.State != TimerCompleted {
		return t.transitionError("start")
	}

	start := now.UTC()
	t.State = TimerRunning
	t.StartTime = &start
	t.PauseTime = nil
	t.AccumulatedPausedMs = 0
	t.UpdatedAt = start
	return nil
}

func (t *Timer) Pause(now time.Time) error {
	if t.State != TimerRunning {
		return t.transitionError("pause")
	}

	pause := now.UTC()
	t.State = TimerPaused
	t.PauseTime = &pause
	t.UpdatedAt = pause
	return nil
}

// Resume is the only place AccumulatedPausedMs grows.
func (t *Timer) Resume(now time.Time) error {
	if t.State != TimerPaused || t.PauseTime == nil {
		return t.transitionError("resume")
	}

	resumed := now.UTC()
	if paused := resumed.Sub(*t.PauseTime).Milliseconds(); paused > 0 {
		t.AccumulatedPausedMs += paused
	}
	t.State = TimerRunning
	t.PauseTime = nil
	t.UpdatedAt = resumed
	return nil
}

func (t *Timer) Stop(now time.Time) {
	t.State = TimerStopped
	t.StartTime = nil
	t.PauseTime = nil
	t.AccumulatedPausedMs = 0
	t.UpdatedAt = now.UTC()
}

func (t *Timer) Complete(now time.Time) error {
	if t.State != TimerRunning {
		return t.transitionError("complete")
	}

	t.State = TimerCompleted
	t.PauseTime = nil
	t.UpdatedAt = now.UTC()
	return nil
}
