package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const habitColumns = `id, user_id, title, description, color, icon, sort_order,
	frequency, anchor_at, last_completed_at, current_streak, longest_streak,
	version, created_at, updated_at, deleted_at`

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (` + habitColumns + `)
        VALUES (
            :id, :user_id, :title, :description, :color, :icon, :sort_order,
            :frequency, :anchor_at, :last_completed_at, :current_streak, :longest_streak,
            1, :created_at, :updated_at, NULL
        )`

	if _, err := r.db.NamedExecContext(ctx, query, h); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var h domain.Habit
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return &h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY sort_order ASC, created_at DESC`

	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
        UPDATE habits SET
            title=$1, description=$2, color=$3, icon=$4, sort_order=$5,
            frequency=$6, anchor_at=$7,
            updated_at=NOW(), version = version + 1
        WHERE id=$8 AND version=$9 AND deleted_at IS NULL
        RETURNING version, updated_at`

	var out struct {
		Version   int       `db:"version"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	err := r.db.GetContext(ctx, &out, query,
		h.Title, h.Description, h.Color, h.Icon, h.SortOrder,
		h.Frequency, h.AnchorAt,
		h.ID, h.Version,
	)
	if err != nil {
		if isMalformedID(err) {
			return domain.ErrHabitNotFound
		}
		if errors.Is(err, sql.ErrNoRows) {
			exists, checkErr := r.exists(ctx, h.ID)
			if checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if !exists {
				return domain.ErrHabitNotFound
			}
			return domain.ErrHabitConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = out.Version
	h.UpdatedAt = out.UpdatedAt

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE habits
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if isMalformedID(err) {
		return domain.ErrHabitNotFound
	}
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

// GetChanges includes soft-deleted rows so clients learn about deletions.
func (r *PostgresHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	if err := r.db.SelectContext(ctx, &habits, query, userID, since); err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}

	return habits, nil
}

// UpdateCompletions bumps updated_at so sync clients pick up new streaks.
func (r *PostgresHabitRepository) UpdateCompletions(ctx context.Context, id string, last *time.Time, current, longest int) error {
	query := `
        UPDATE habits
        SET last_completed_at = $1, current_streak = $2, longest_streak = $3, updated_at = NOW()
        WHERE id = $4 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, last, current, longest, id)
	if isMalformedID(err) {
		return domain.ErrHabitNotFound
	}
	if err != nil {
		return fmt.Errorf("update completions failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM habits WHERE id = $1", id)
	return count > 0, err
}
