package calculator

import (
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

// ElapsedMs is the running time of the timer in whole milliseconds, never
// negative. A paused timer is frozen at its pause instant.
func ElapsedMs(t domain.TimerSnapshot, now time.Time) int64 {
	var elapsed int64

	switch t.State {
	case domain.TimerCompleted:
		return t.DurationMs
	case domain.TimerRunning:
		if t.StartTime == nil {
			return 0
		}
		elapsed = now.Sub(*t.StartTime).Milliseconds() - t.AccumulatedPausedMs
	case domain.TimerPaused:
		if t.StartTime == nil || t.PauseTime == nil {
			return 0
		}
		elapsed = t.PauseTime.Sub(*t.StartTime).Milliseconds() - t.AccumulatedPausedMs
	default:
		return 0
	}

	return max(0, elapsed)
}

func RemainingSeconds(t domain.TimerSnapshot, now time.Time) int64 {
	return max(0, t.DurationMs/1000-ElapsedMs(t, now)/1000)
}

// ShouldComplete never holds for a paused timer, even past its duration.
func ShouldComplete(t domain.TimerSnapshot, now time.Time) bool {
	return t.State == domain.TimerRunning && ElapsedMs(t, now) >= t.DurationMs
}
