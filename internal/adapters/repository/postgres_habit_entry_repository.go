package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

const entryColumns = `id, habit_id, user_id, completion_date, value, notes,
	version, created_at, updated_at, deleted_at`

type PostgresEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO habit_entries (` + entryColumns + `)
		VALUES (
			:id, :habit_id, :user_id,
			:completion_date, :value, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: habit %s", ErrReferenceMissing, entry.HabitID)
		case pgUniqueViolation:
			return domain.ErrEntryConflict
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	var entry domain.HabitEntry
	query := `SELECT ` + entryColumns + ` FROM habit_entries WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresEntryRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	entries := []*domain.HabitEntry{}

	query := `
		SELECT ` + entryColumns + ` FROM habit_entries
		WHERE habit_id = $1
		  AND completion_date >= $2
		  AND completion_date <= $3
		  AND deleted_at IS NULL
		ORDER BY completion_date DESC`

	err := r.db.SelectContext(ctx, &entries, query, habitID, from, to)
	if isMalformedID(err) {
		return []*domain.HabitEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE habit_entries
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if isMalformedID(err) {
		return domain.ErrEntryNotFound
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}
