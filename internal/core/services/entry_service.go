package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

// CompletionQueue is satisfied by workers.CompletionWorker. Both entry
// changes and habit frequency changes feed it.
type CompletionQueue interface {
	Enqueue(habitID string)
}

type EntryService struct {
	repo      domain.HabitEntryRepository
	habitRepo domain.HabitRepository
	worker    CompletionQueue
}

func NewEntryService(repo domain.HabitEntryRepository, habitRepo domain.HabitRepository, worker CompletionQueue) *EntryService {
	return &EntryService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type CreateEntryInput struct {
	HabitID        string
	UserID         string
	CompletionDate time.Time
	Value          int
	Notes          string
}

func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*domain.HabitEntry, error) {
	if input.CompletionDate.IsZero() {
		input.CompletionDate = time.Now()
	}
	if input.Value == 0 {
		input.Value = 1
	}

	entry := domain.NewHabitEntry(input.HabitID, input.UserID, input.CompletionDate, input.Value)
	entry.Notes = input.Notes

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, entry.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != entry.UserID {
		return nil, domain.ErrUnauthorized
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.HabitID)

	return entry, nil
}

func (s *EntryService) GetByID(ctx context.Context, id string, userID string) (*domain.HabitEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

func (s *EntryService) ListByHabitID(ctx context.Context, habitID string, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByHabitID(ctx, habitID, from, to)
}

func (s *EntryService) Delete(ctx context.Context, id string, userID string) error {
	entry, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(entry.HabitID)

	return nil
}
