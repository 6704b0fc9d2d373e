package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

func newTimer(t *testing.T) *domain.Timer {
	t.Helper()
	timer, err := domain.NewTimer("u1", "Pomodoro", 5*time.Minute)
	require.NoError(t, err)
	return timer
}

func TestNewTimer(t *testing.T) {
	timer := newTimer(t)
	assert.Equal(t, domain.TimerStopped, timer.State)
	assert.Equal(t, int64(300000), timer.DurationMs)
	assert.Equal(t, 1, timer.Version)
	assert.Nil(t, timer.StartTime)

	_, err := domain.NewTimer("u1", " ", time.Minute)
	assert.Equal(t, domain.ErrTimerLabelEmpty, err)

	_, err = domain.NewTimer("u1", "x", 0)
	assert.Equal(t, domain.ErrTimerInvalidDuration, err)

	_, err = domain.NewTimer("u1", "x", domain.MaxTimerDuration+time.Millisecond)
	assert.Equal(t, domain.ErrTimerInvalidDuration, err)

	longest, err := domain.NewTimer("u1", "x", domain.MaxTimerDuration)
	require.NoError(t, err)
	assert.Equal(t, int64(604800000), longest.DurationMs)

	_, err = domain.NewTimer("", "x", time.Minute)
	assert.Equal(t, domain.ErrInvalidUserID, err)
}

func TestTimer_PauseResumeAccounting(t *testing.T) {
	t0 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	timer := newTimer(t)

	require.NoError(t, timer.Start(t0))
	require.NoError(t, timer.Pause(t0.Add(60*time.Second)))

	snap := timer.Snapshot()
	assert.Equal(t, domain.TimerPaused, snap.State)
	assert.Equal(t, int64(0), snap.AccumulatedPausedMs, "pausing must not touch the accumulated pause")

	require.NoError(t, timer.Resume(t0.Add(90*time.Second)))
	assert.Equal(t, int64(30000), timer.AccumulatedPausedMs)
	assert.Nil(t, timer.PauseTime)

	require.NoError(t, timer.Pause(t0.Add(100*time.Second)))
	require.NoError(t, timer.Resume(t0.Add(110*time.Second)))
	assert.Equal(t, int64(40000), timer.AccumulatedPausedMs)

	require.NoError(t, timer.Complete(t0.Add(340*time.Second)))
	assert.Equal(t, domain.TimerCompleted, timer.State)

	require.NoError(t, timer.Start(t0.Add(time.Hour)), "completed timers can be restarted")
	assert.Equal(t, int64(0), timer.AccumulatedPausedMs)
}

func TestTimer_InvalidTransitions(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Pause a stopped timer", func(t *testing.T) {
		assert.ErrorIs(t, newTimer(t).Pause(now), domain.ErrInvalidTimerTransition)
	})

	t.Run("Resume a running timer", func(t *testing.T) {
		timer := newTimer(t)
		require.NoError(t, timer.Start(now))
		assert.ErrorIs(t, timer.Resume(now), domain.ErrInvalidTimerTransition)
	})

	t.Run("Start a paused timer", func(t *testing.T) {
		timer := newTimer(t)
		require.NoError(t, timer.Start(now))
		require.NoError(t, timer.Pause(now))
		assert.ErrorIs(t, timer.Start(now), domain.ErrInvalidTimerTransition)
	})

	t.Run("Complete a paused timer", func(t *testing.T) {
		timer := newTimer(t)
		require.NoError(t, timer.Start(now))
		require.NoError(t, timer.Pause(now))
		assert.ErrorIs(t, timer.Complete(now), domain.ErrInvalidTimerTransition)
	})

	t.Run("Stop always resets", func(t *testing.T) {
		timer := newTimer(t)
		require.NoError(t, timer.Start(now))
		require.NoError(t, timer.Pause(now.Add(time.Second)))
		timer.Stop(now.Add(2 * time.Second))

		assert.Equal(t, domain.TimerStopped, timer.State)
		assert.Nil(t, timer.StartTime)
		assert.Nil(t, timer.PauseTime)
	})
}
