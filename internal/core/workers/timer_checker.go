package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/calculator"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/metrics"
)

const DefaultTimerCheckSpec = "@every 5s"

type TimerRepository interface {
	ListByState(ctx context.Context, state domain.TimerState) ([]*domain.Timer, error)
	Update(ctx context.Context, timer *domain.Timer) error
}

// TimerChecker moves RUNNING timers whose duration has elapsed to COMPLETED.
type TimerChecker struct {
	repo  TimerRepository
	spec  string
	clock func() time.Time
	log   logrus.FieldLogger
	cron  *cron.Cron
}

func NewTimerChecker(repo TimerRepository, spec string, clock func() time.Time, log logrus.FieldLogger) *TimerChecker {
	if spec == "" {
		spec = DefaultTimerCheckSpec
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("worker", "timer_checker")

	return &TimerChecker{
		repo:  repo,
		spec:  spec,
		clock: clock,
		log:   log,
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log)))),
	}
}

// Start schedules the check and stops the scheduler once ctx is done.
func (c *TimerChecker) Start(ctx context.Context) error {
	if _, err := c.cron.AddFunc(c.spec, func() {
		if _, err := c.RunOnce(ctx); err != nil {
			c.log.WithError(err).Error("timer check failed")
		}
	}); err != nil {
		return fmt.Errorf("timer checker: invalid schedule %q: %w", c.spec, err)
	}

	c.cron.Start()
	c.log.WithField("schedule", c.spec).Info("timer checker started")

	go func() {
		<-ctx.Done()
		<-c.cron.Stop().Done()
		c.log.Info("timer checker stopped")
	}()

	return nil
}

// RunOnce performs a single pass and returns how many timers were completed.
// A version conflict means a user touched the timer concurrently; it is
// skipped and picked up on the next pass if still due.
func (c *TimerChecker) RunOnce(ctx context.Context) (int, error) {
	timers, err := c.repo.ListByState(ctx, domain.TimerRunning)
	if err != nil {
		metrics.RecordTimerCheck(false)
		return 0, fmt.Errorf("list running timers: %w", err)
	}

	now := c.clock()
	completed := 0

	for _, t := range timers {
		if !calculator.ShouldComplete(t.Snapshot(), now) {
			continue
		}

		log := c.log.WithField("timer_id", t.ID)

		if err := t.Complete(now); err != nil {
			log.WithError(err).Warn("cannot complete timer")
			continue
		}

		if err := c.repo.Update(ctx, t); err != nil {
			if errors.Is(err, domain.ErrTimerConflict) {
				log.Debug("timer changed concurrently, skipping")
				continue
			}
			log.WithError(err).Error("store completed timer")
			continue
		}

		completed++
		log.Info("timer completed")
	}

	metrics.RecordTimerCheck(true)
	metrics.RecordTimersCompleted(completed)

	return completed, nil
}
