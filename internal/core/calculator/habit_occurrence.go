// Package calculator holds the pure date arithmetic behind habit due dates
// and timer progress. Every function takes the evaluation instant explicitly
// and never reads the wall clock.
package calculator

import (
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

// CycleStart returns midnight of the first day of the cycle containing t,
// in t's location. Weekly cycles are ISO weeks starting on Monday.
func CycleStart(freq domain.Frequency, t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()

	switch freq {
	case domain.FrequencyWeekly:
		return time.Date(y, m, d-isoWeekdayOffset(t.Weekday()), 0, 0, 0, 0, loc)
	case domain.FrequencyMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case domain.FrequencyYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// NextCycleStart expects a value returned by CycleStart.
func NextCycleStart(freq domain.Frequency, start time.Time) time.Time {
	switch freq {
	case domain.FrequencyWeekly:
		return start.AddDate(0, 0, 7)
	case domain.FrequencyMonthly:
		return start.AddDate(0, 1, 0)
	case domain.FrequencyYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// SameCycle reports whether t falls in the cycle of ref, evaluated in ref's location.
func SameCycle(freq domain.Frequency, t, ref time.Time) bool {
	return CycleStart(freq, t.In(ref.Location())).Equal(CycleStart(freq, ref))
}

// CycleDue is the instant the habit is due within the cycle of now.
func CycleDue(occ domain.HabitOccurrence, now time.Time) time.Time {
	return dueInCycle(occ, CycleStart(occ.Frequency, now))
}

// IsDone reports whether the last completion lies in the cycle of now.
func IsDone(occ domain.HabitOccurrence, now time.Time) bool {
	return occ.LastCompleted != nil && SameCycle(occ.Frequency, *occ.LastCompleted, now)
}

// IsOverdue reports whether now has reached the due point of the current
// cycle while the habit is still not done for it. A habit is never overdue
// before its anchor.
func IsOverdue(occ domain.HabitOccurrence, now time.Time) bool {
	if now.Before(occ.Anchor) || IsDone(occ, now) {
		return false
	}
	return !now.Before(CycleDue(occ, now))
}

// NextOccurrence is the first due instant strictly after now that still
// needs a completion: the current cycle's due point, or the next cycle's
// when the current one has passed or is already done.
func NextOccurrence(occ domain.HabitOccurrence, now time.Time) time.Time {
	start := CycleStart(occ.Frequency, now)
	due := dueInCycle(occ, start)
	if !due.After(now) || IsDone(occ, now) {
		due = dueInCycle(occ, NextCycleStart(occ.Frequency, start))
	}
	if occ.Anchor.After(due) {
		return occ.Anchor
	}
	return due
}

// OverdueHabits keeps input order.
func OverdueHabits(habits []*domain.Habit, now time.Time) []*domain.Habit {
	overdue := make([]*domain.Habit, 0)
	for _, h := range habits {
		if IsOverdue(h.Occurrence(), now) {
			overdue = append(overdue, h)
		}
	}
	return overdue
}

// NextHabit returns the pending habit due soonest after now together with
// its due instant. Habits that are overdue or already done are skipped and
// ties go to the earlier element. It returns nil when nothing is pending.
func NextHabit(habits []*domain.Habit, now time.Time) (*domain.Habit, time.Time) {
	var (
		next   *domain.Habit
		nextAt time.Time
	)

	for _, h := range habits {
		occ := h.Occurrence()
		if IsOverdue(occ, now) || IsDone(occ, now) {
			continue
		}

		at := NextOccurrence(occ, now)
		if !at.After(now) {
			continue
		}

		if next == nil || at.Before(nextAt) {
			next = h
			nextAt = at
		}
	}

	return next, nextAt
}

// The anchor is read as a wall clock in the location of start.
func dueInCycle(occ domain.HabitOccurrence, start time.Time) time.Time {
	a := occ.Anchor.In(start.Location())
	hour, minute, sec := a.Clock()
	nsec := a.Nanosecond()
	y, m, d := start.Date()
	loc := start.Location()

	switch occ.Frequency {
	case domain.FrequencyWeekly:
		return time.Date(y, m, d+isoWeekdayOffset(a.Weekday()), hour, minute, sec, nsec, loc)
	case domain.FrequencyMonthly:
		return time.Date(y, m, min(a.Day(), daysIn(y, m)), hour, minute, sec, nsec, loc)
	case domain.FrequencyYearly:
		return time.Date(y, a.Month(), min(a.Day(), daysIn(y, a.Month())), hour, minute, sec, nsec, loc)
	default:
		return time.Date(y, m, d, hour, minute, sec, nsec, loc)
	}
}

// Monday is 0.
func isoWeekdayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
