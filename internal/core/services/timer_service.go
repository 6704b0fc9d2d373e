package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

// Clock returns the current instant. Production code passes time.Now.
type Clock func() time.Time

type TimerService struct {
	repo  domain.TimerRepository
	clock Clock
}

func NewTimerService(repo domain.TimerRepository, clock Clock) *TimerService {
	if clock == nil {
		clock = time.Now
	}
	return &TimerService{
		repo:  repo,
		clock: clock,
	}
}

type CreateTimerInput struct {
	UserID   string
	Label    string
	Duration time.Duration
}

func (s *TimerService) Create(ctx context.Context, input CreateTimerInput) (*domain.Timer, error) {
	timer, err := domain.NewTimer(input.UserID, input.Label, input.Duration)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, timer); err != nil {
		return nil, err
	}

	return timer, nil
}

func (s *TimerService) Get(ctx context.Context, id, userID string) (*domain.Timer, error) {
	timer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if timer.UserID != userID {
		return nil, domain.ErrTimerNotFound
	}
	return timer, nil
}

func (s *TimerService) ListByUserID(ctx context.Context, userID string) ([]*domain.Timer, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TimerService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TimerService) Start(ctx context.Context, id, userID string) (*domain.Timer, error) {
	return s.transition(ctx, id, userID, func(t *domain.Timer, now time.Time) error {
		return t.Start(now)
	})
}

func (s *TimerService) Pause(ctx context.Context, id, userID string) (*domain.Timer, error) {
	return s.transition(ctx, id, userID, func(t *domain.Timer, now time.Time) error {
		return t.Pause(now)
	})
}

func (s *TimerService) Resume(ctx context.Context, id, userID string) (*domain.Timer, error) {
	return s.transition(ctx, id, userID, func(t *domain.Timer, now time.Time) error {
		return t.Resume(now)
	})
}

func (s *TimerService) Stop(ctx context.Context, id, userID string) (*domain.Timer, error) {
	return s.transition(ctx, id, userID, func(t *domain.Timer, now time.Time) error {
		t.Stop(now)
		return nil
	})
}

func (s *TimerService) transition(ctx context.Context, id, userID string, apply func(*domain.Timer, time.Time) error) (*domain.Timer, error) {
	timer, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := apply(timer, s.clock()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, timer); err != nil {
		return nil, err
	}

	return timer, nil
}
