package domain

import "time"

type TimerView struct {
	Timer            *Timer `json:"timer"`
	ElapsedMs        int64  `json:"elapsed_ms"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	ShouldComplete   bool   `json:"should_complete"`
}

type Dashboard struct {
	GeneratedAt    time.Time   `json:"generated_at"`
	TimeZone       string      `json:"time_zone"`
	NextHabit      *Habit      `json:"next_habit"`
	NextHabitDueAt *time.Time  `json:"next_habit_due_at,omitempty"`
	OverdueHabits  []*Habit    `json:"overdue_habits"`
	Timers         []TimerView `json:"timers"`
}

type DashboardInput struct {
	UserID   string
	Now      time.Time
	Location *time.Location
}
