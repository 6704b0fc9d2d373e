package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

const DefaultHabitCacheTTL = 30 * time.Minute

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

// CachedHabitRepository caches the per-user habit list, which the dashboard
// reads on every request. Any write for a user drops that user's key.
// Redis failures degrade to reading through.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedHabitRepository {
	if ttl <= 0 {
		ttl = DefaultHabitCacheTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.WithField("component", "habit_cache"),
	}
}

func (r *CachedHabitRepository) cacheKey(userID string) string {
	return fmt.Sprintf("habits:%s", userID)
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate")
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var habits []*domain.Habit
		if err := json.Unmarshal(val, &habits); err == nil {
			return habits, nil
		}

		r.log.WithField("user_id", userID).Warn("corrupted cache entry, cleaning up key")
		r.cache.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		r.log.WithError(err).Warn("redis read error")
	}

	habits, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, key, data, r.ttl).Err(); setErr != nil {
			r.log.WithError(setErr).Warn("redis set error")
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	return r.next.GetChanges(ctx, userID, since)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil && habit != nil {
		defer r.invalidate(ctx, habit.UserID)
	}

	return r.next.Delete(ctx, id)
}

func (r *CachedHabitRepository) UpdateCompletions(ctx context.Context, id string, last *time.Time, current, longest int) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil && habit != nil {
		defer r.invalidate(ctx, habit.UserID)
	}

	return r.next.UpdateCompletions(ctx, id, last, current, longest)
}
