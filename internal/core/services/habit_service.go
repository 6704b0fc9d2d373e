package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

type HabitService struct {
	repo   domain.HabitRepository
	worker CompletionQueue
}

func NewHabitService(repo domain.HabitRepository, worker CompletionQueue) *HabitService {
	return &HabitService{
		repo:   repo,
		worker: worker,
	}
}

type CreateHabitInput struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Color       string
	Icon        string
	Frequency   string
	AnchorAt    time.Time
}

type UpdateHabitInput struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Color       string
	Icon        string
	Frequency   string
	AnchorAt    time.Time
	SortOrder   *int
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

// Create accepts a client-generated ID so offline clients can retry safely:
// a habit that already exists for the same user is returned unchanged.
func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	if input.ID != "" {
		if _, err := uuid.Parse(input.ID); err != nil {
			return nil, domain.ErrInvalidHabitID
		}

		existing, err := s.repo.GetByID(ctx, input.ID)
		switch {
		case err == nil && existing.UserID == input.UserID:
			return existing, nil
		case err == nil:
			return nil, fmt.Errorf("%w: id already taken", domain.ErrHabitConflict)
		case !errors.Is(err, domain.ErrHabitNotFound):
			return nil, err
		}
	}

	freq, err := domain.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}

	habit, err := domain.NewHabit(input.UserID, input.Title, freq, input.AnchorAt)
	if err != nil {
		return nil, err
	}

	if input.ID != "" {
		habit.ID = input.ID
	}

	err = habit.Update(
		input.Title,
		input.Description,
		input.Color,
		input.Icon,
		freq,
		input.AnchorAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	prevFreq := habit.Frequency
	freq := habit.Frequency
	if input.Frequency != "" {
		if freq, err = domain.ParseFrequency(input.Frequency); err != nil {
			return nil, err
		}
	}

	anchor := habit.AnchorAt
	if !input.AnchorAt.IsZero() {
		anchor = input.AnchorAt
	}

	err = habit.Update(
		mergeString(input.Title, habit.Title),
		mergeString(input.Description, habit.Description),
		mergeString(input.Color, habit.Color),
		mergeString(input.Icon, habit.Icon),
		freq,
		anchor,
	)
	if err != nil {
		return nil, err
	}

	if input.SortOrder != nil {
		habit.ChangePosition(*input.SortOrder)
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	// Streaks are counted in cycles of the frequency.
	if habit.Frequency != prevFreq {
		s.worker.Enqueue(habit.ID)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
