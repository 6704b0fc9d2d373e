package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/lifecommander/internal/core/calculator"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

type DashboardService struct {
	habitRepo domain.HabitRepository
	timerRepo domain.TimerRepository
}

func NewDashboardService(habitRepo domain.HabitRepository, timerRepo domain.TimerRepository) *DashboardService {
	return &DashboardService{
		habitRepo: habitRepo,
		timerRepo: timerRepo,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context, input domain.DashboardInput) (*domain.Dashboard, error) {
	loc := input.Location
	if loc == nil {
		loc = time.UTC
	}
	now := input.Now.In(loc)

	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list habits: %w", err)
	}

	timers, err := s.timerRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list timers: %w", err)
	}

	dashboard := &domain.Dashboard{
		GeneratedAt:   now,
		TimeZone:      loc.String(),
		OverdueHabits: calculator.OverdueHabits(habits, now),
		Timers:        make([]domain.TimerView, 0, len(timers)),
	}

	if next, dueAt := calculator.NextHabit(habits, now); next != nil {
		dashboard.NextHabit = next
		dashboard.NextHabitDueAt = &dueAt
	}

	for _, t := range timers {
		snap := t.Snapshot()
		dashboard.Timers = append(dashboard.Timers, domain.TimerView{
			Timer:            t,
			ElapsedMs:        calculator.ElapsedMs(snap, now),
			RemainingSeconds: calculator.RemainingSeconds(snap, now),
			ShouldComplete:   calculator.ShouldComplete(snap, now),
		})
	}

	return dashboard, nil
}
