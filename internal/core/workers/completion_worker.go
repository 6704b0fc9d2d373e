package workers

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/calculator"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/metrics"
)

const completionQueueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateCompletions(ctx context.Context, id string, last *time.Time, current, longest int) error
}

type EntryRepository interface {
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error)
}

type CompletionJob struct {
	HabitID string
}

// CompletionWorker recomputes a habit's LastCompletedAt and streaks after
// its entries change. Jobs are dropped when the queue is full; the next
// entry change for the same habit recomputes everything from scratch.
type CompletionWorker struct {
	habitRepo HabitRepository
	entryRepo EntryRepository
	jobs      chan CompletionJob
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewCompletionWorker(hRepo HabitRepository, eRepo EntryRepository, log logrus.FieldLogger) *CompletionWorker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CompletionWorker{
		habitRepo: hRepo,
		entryRepo: eRepo,
		jobs:      make(chan CompletionJob, completionQueueSize),
		log:       log.WithField("worker", "completion"),
		now:       time.Now,
	}
}

func (w *CompletionWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("completion worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("completion worker shutting down")
				return
			}
		}
	}()
}

func (w *CompletionWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- CompletionJob{HabitID: habitID}:
	default:
		metrics.RecordCompletionJob("dropped")
		w.log.WithField("habit_id", habitID).Warn("queue full, dropping job")
	}
}

func (w *CompletionWorker) processJob(ctx context.Context, job CompletionJob) {
	log := w.log.WithField("habit_id", job.HabitID)

	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		metrics.RecordCompletionJob("failed")
		log.WithError(err).Error("fetch habit")
		return
	}

	now := w.now().UTC()
	entries, err := w.entryRepo.ListByHabitID(ctx, job.HabitID, time.Time{}, now)
	if err != nil {
		metrics.RecordCompletionJob("failed")
		log.WithError(err).Error("fetch entries")
		return
	}

	last, current, longest := calculateStreaks(entries, habit.Frequency, now)

	if sameTime(habit.LastCompletedAt, last) && habit.CurrentStreak == current && habit.LongestStreak == longest {
		metrics.RecordCompletionJob("processed")
		return
	}

	if err := w.habitRepo.UpdateCompletions(ctx, habit.ID, last, current, longest); err != nil {
		metrics.RecordCompletionJob("failed")
		log.WithError(err).Error("store completions")
		return
	}

	metrics.RecordCompletionJob("processed")
	log.WithFields(logrus.Fields{
		"current": current,
		"longest": longest,
	}).Debug("completions updated")
}

// calculateStreaks counts consecutive cycles of freq holding at least one
// entry. The current streak stays alive while the latest completed cycle is
// the present one or the one right before it.
func calculateStreaks(entries []*domain.HabitEntry, freq domain.Frequency, now time.Time) (*time.Time, int, int) {
	if len(entries) == 0 {
		return nil, 0, 0
	}

	var last time.Time
	seen := make(map[time.Time]bool)
	var cycles []time.Time

	for _, e := range entries {
		date := e.CompletionDate.UTC()
		if date.After(now) {
			continue
		}
		if date.After(last) {
			last = date
		}
		start := calculator.CycleStart(freq, date)
		if !seen[start] {
			seen[start] = true
			cycles = append(cycles, start)
		}
	}

	if len(cycles) == 0 {
		return nil, 0, 0
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].After(cycles[j])
	})

	consecutive := func(newer, older time.Time) bool {
		return calculator.NextCycleStart(freq, older).Equal(newer)
	}

	currentStreak := 0
	nowCycle := calculator.CycleStart(freq, now)
	if cycles[0].Equal(nowCycle) || consecutive(nowCycle, cycles[0]) {
		currentStreak = 1
		for i := 0; i < len(cycles)-1; i++ {
			if !consecutive(cycles[i], cycles[i+1]) {
				break
			}
			currentStreak++
		}
	}

	longestStreak := 1
	run := 1
	for i := 0; i < len(cycles)-1; i++ {
		if consecutive(cycles[i], cycles[i+1]) {
			run++
		} else {
			run = 1
		}
		longestStreak = max(longestStreak, run)
	}

	return &last, currentStreak, longestStreak
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
