package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

const timerColumns = `id, user_id, label, state, start_time, pause_time,
	accumulated_paused_ms, duration_ms, version, created_at, updated_at`

type PostgresTimerRepository struct {
	db *sqlx.DB
}

func NewPostgresTimerRepository(db *sqlx.DB) *PostgresTimerRepository {
	return &PostgresTimerRepository{db: db}
}

func (r *PostgresTimerRepository) Create(ctx context.Context, t *domain.Timer) error {
	query := `
		INSERT INTO timers (` + timerColumns + `)
		VALUES (
			:id, :user_id, :label, :state, :start_time, :pause_time,
			:accumulated_paused_ms, :duration_ms, :version, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return domain.ErrTimerConflict
		}
		return fmt.Errorf("failed to insert timer: %w", err)
	}
	return nil
}

func (r *PostgresTimerRepository) GetByID(ctx context.Context, id string) (*domain.Timer, error) {
	var t domain.Timer
	query := `SELECT ` + timerColumns + ` FROM timers WHERE id = $1`

	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrTimerNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &t, nil
}

func (r *PostgresTimerRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Timer, error) {
	timers := []*domain.Timer{}
	query := `SELECT ` + timerColumns + ` FROM timers WHERE user_id = $1 ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &timers, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return timers, nil
}

func (r *PostgresTimerRepository) ListByState(ctx context.Context, state domain.TimerState) ([]*domain.Timer, error) {
	timers := []*domain.Timer{}
	query := `SELECT ` + timerColumns + ` FROM timers WHERE state = $1`

	if err := r.db.SelectContext(ctx, &timers, query, state); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return timers, nil
}

func (r *PostgresTimerRepository) Update(ctx context.Context, t *domain.Timer) error {
	query := `
		UPDATE timers SET
		    label = $1, state = $2, start_time = $3, pause_time = $4,
		    accumulated_paused_ms = $5, updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version`

	var newVersion int
	err := r.db.GetContext(ctx, &newVersion, query,
		t.Label, t.State, t.StartTime, t.PauseTime,
		t.AccumulatedPausedMs, t.UpdatedAt,
		t.ID, t.Version,
	)
	if err != nil {
		if isMalformedID(err) {
			return domain.ErrTimerNotFound
		}
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.GetContext(ctx, &count, "SELECT count(*) FROM timers WHERE id = $1", t.ID); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrTimerNotFound
			}
			return domain.ErrTimerConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	t.Version = newVersion
	return nil
}

func (r *PostgresTimerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timers WHERE id = $1`, id)
	if isMalformedID(err) {
		return domain.ErrTimerNotFound
	}
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTimerNotFound
	}
	return nil
}
