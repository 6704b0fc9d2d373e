package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "pgx"), mock
}

var (
	fixedNow    = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	habitCols   = []string{"id", "user_id", "title", "description", "color", "icon", "sort_order", "frequency", "anchor_at", "last_completed_at", "current_streak", "longest_streak", "version", "created_at", "updated_at", "deleted_at"}
	timerCols   = []string{"id", "user_id", "label", "state", "start_time", "pause_time", "accumulated_paused_ms", "duration_ms", "version", "created_at", "updated_at"}
	entryCols   = []string{"id", "habit_id", "user_id", "completion_date", "value", "notes", "version", "created_at", "updated_at", "deleted_at"}
	anchorAtFix = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
)

func TestMigrate_AppliesEmbeddedFiles(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS habits").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHabitRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps row into habit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgresHabitRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM habits WHERE id = $1 AND deleted_at IS NULL")).
			WithArgs("h1").
			WillReturnRows(sqlmock.NewRows(habitCols).AddRow(
				"h1", "user-1", "Run", "", "#FFFFFF", "circle", 0, "WEEKLY", anchorAtFix, fixedNow, 3, 5, 2, fixedNow, fixedNow, nil,
			))

		h, err := repo.GetByID(ctx, "h1")

		require.NoError(t, err)
		assert.Equal(t, domain.FrequencyWeekly, h.Frequency)
		require.NotNil(t, h.LastCompletedAt)
		assert.True(t, fixedNow.Equal(*h.LastCompletedAt))
		assert.Equal(t, 3, h.CurrentStreak)
		assert.Equal(t, 2, h.Version)
		assert.Nil(t, h.DeletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No rows is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgresHabitRepository(db)

		mock.ExpectQuery("FROM habits").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(habitCols))

		_, err := repo.GetByID(ctx, "ghost")

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestPostgresHabitRepository_Create(t *testing.T) {
	ctx := context.Background()
	habit := &domain.Habit{ID: "h1", UserID: "user-1", Title: "Run", Frequency: domain.FrequencyDaily, AnchorAt: anchorAtFix, CreatedAt: fixedNow, UpdatedAt: fixedNow}

	t.Run("Inserts with version 1", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO habits").WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgresHabitRepository(db).Create(ctx, habit)

		require.NoError(t, err)
		assert.Equal(t, 1, habit.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique violation is a conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO habits").WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		err := NewPostgresHabitRepository(db).Create(ctx, habit)

		assert.ErrorIs(t, err, domain.ErrHabitConflict)
	})
}

func TestPostgresHabitRepository_Update(t *testing.T) {
	ctx := context.Background()

	newHabit := func() *domain.Habit {
		return &domain.Habit{ID: "h1", Title: "Run", Frequency: domain.FrequencyDaily, AnchorAt: anchorAtFix, Version: 2}
	}

	t.Run("Success returns new version", func(t *testing.T) {
		db, mock := newMockDB(t)
		h := newHabit()

		mock.ExpectQuery("UPDATE habits SET").
			WithArgs(h.Title, h.Description, h.Color, h.Icon, h.SortOrder, "DAILY", h.AnchorAt, "h1", 2).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(3, fixedNow))

		require.NoError(t, NewPostgresHabitRepository(db).Update(ctx, h))
		assert.Equal(t, 3, h.Version)
		assert.True(t, fixedNow.Equal(h.UpdatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale version is a conflict", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery("UPDATE habits SET").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM habits")).
			WithArgs("h1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewPostgresHabitRepository(db).Update(ctx, newHabit())

		assert.ErrorIs(t, err, domain.ErrHabitConflict)
	})

	t.Run("Missing row is not found", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery("UPDATE habits SET").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM habits")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := NewPostgresHabitRepository(db).Update(ctx, newHabit())

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestPostgresHabitRepository_DeleteAndCompletions(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete of missing habit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE habits").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresHabitRepository(db).Delete(ctx, "ghost")

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("UpdateCompletions writes derived values", func(t *testing.T) {
		db, mock := newMockDB(t)
		last := fixedNow

		mock.ExpectExec("SET last_completed_at").
			WithArgs(last, 4, 9, "h1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgresHabitRepository(db).UpdateCompletions(ctx, "h1", &last, 4, 9))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresEntryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create maps foreign key violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO habit_entries").WillReturnError(&pq.Error{Code: pgForeignKeyViolation})

		err := NewPostgresEntryRepository(db).Create(ctx, domain.NewHabitEntry("h1", "user-1", fixedNow, 1))

		assert.ErrorIs(t, err, ErrReferenceMissing)
	})

	t.Run("Create maps unique violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO habit_entries").WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		err := NewPostgresEntryRepository(db).Create(ctx, domain.NewHabitEntry("h1", "user-1", fixedNow, 1))

		assert.ErrorIs(t, err, domain.ErrEntryConflict)
	})

	t.Run("ListByHabitID passes the range", func(t *testing.T) {
		db, mock := newMockDB(t)
		from := fixedNow.AddDate(0, 0, -7)

		mock.ExpectQuery("FROM habit_entries").
			WithArgs("h1", from, fixedNow).
			WillReturnRows(sqlmock.NewRows(entryCols).
				AddRow("e2", "h1", "user-1", fixedNow, 1, "", 1, fixedNow, fixedNow, nil).
				AddRow("e1", "h1", "user-1", from, 2, "note", 1, from, from, nil))

		entries, err := NewPostgresEntryRepository(db).ListByHabitID(ctx, "h1", from, fixedNow)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "e2", entries[0].ID)
		assert.Equal(t, "note", entries[1].Notes)
	})

	t.Run("Delete requires ownership", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE habit_entries").
			WithArgs(sqlmock.AnyArg(), "e1", "intruder").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresEntryRepository(db).Delete(ctx, "e1", "intruder")

		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}

func TestPostgresTimerRepository(t *testing.T) {
	ctx := context.Background()
	start := fixedNow.Add(-time.Minute)

	t.Run("ListByState scans nullable times", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery("FROM timers WHERE state = \\$1").
			WithArgs("RUNNING").
			WillReturnRows(sqlmock.NewRows(timerCols).
				AddRow("t1", "user-1", "Tea", "RUNNING", start, nil, int64(1500), int64(300000), 2, fixedNow, fixedNow))

		timers, err := NewPostgresTimerRepository(db).ListByState(ctx, domain.TimerRunning)

		require.NoError(t, err)
		require.Len(t, timers, 1)
		assert.Equal(t, domain.TimerRunning, timers[0].State)
		require.NotNil(t, timers[0].StartTime)
		assert.Nil(t, timers[0].PauseTime)
		assert.Equal(t, int64(1500), timers[0].AccumulatedPausedMs)
	})

	t.Run("Update bumps version", func(t *testing.T) {
		db, mock := newMockDB(t)
		timer := &domain.Timer{ID: "t1", Label: "Tea", State: domain.TimerCompleted, StartTime: &start, DurationMs: 300000, Version: 2, UpdatedAt: fixedNow}

		mock.ExpectQuery("UPDATE timers SET").
			WithArgs("Tea", "COMPLETED", start, nil, int64(0), fixedNow, "t1", 2).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))

		require.NoError(t, NewPostgresTimerRepository(db).Update(ctx, timer))
		assert.Equal(t, 3, timer.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update of stale version is a conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		timer := &domain.Timer{ID: "t1", Version: 1}

		mock.ExpectQuery("UPDATE timers SET").WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM timers")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewPostgresTimerRepository(db).Update(ctx, timer)

		assert.ErrorIs(t, err, domain.ErrTimerConflict)
	})

	t.Run("Query errors are wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("FROM timers").WillReturnError(boom)

		_, err := NewPostgresTimerRepository(db).ListByUserID(ctx, "user-1")

		assert.ErrorIs(t, err, boom)
	})
}

func TestPgErrorCode(t *testing.T) {
	assert.Equal(t, pgUniqueViolation, pgErrorCode(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.Equal(t, pgForeignKeyViolation, pgErrorCode(&pq.Error{Code: pgForeignKeyViolation}))
	assert.Empty(t, pgErrorCode(errors.New("plain")))
}

func TestPostgresRepositories_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	badUUID := &pgconn.PgError{Code: pgInvalidTextRepresentation, Message: `invalid input syntax for type uuid: "abc"`}

	t.Run("Timer GetByID", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM timers WHERE id = \\$1").WithArgs("abc").WillReturnError(badUUID)

		_, err := NewPostgresTimerRepository(db).GetByID(ctx, "abc")

		assert.ErrorIs(t, err, domain.ErrTimerNotFound)
	})

	t.Run("Timer Delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM timers").WithArgs("abc").WillReturnError(badUUID)

		assert.ErrorIs(t, NewPostgresTimerRepository(db).Delete(ctx, "abc"), domain.ErrTimerNotFound)
	})

	t.Run("Habit GetByID", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM habits WHERE id = $1")).WithArgs("abc").WillReturnError(badUUID)

		_, err := NewPostgresHabitRepository(db).GetByID(ctx, "abc")

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Habit Update", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("UPDATE habits SET").WillReturnError(badUUID)

		err := NewPostgresHabitRepository(db).Update(ctx, &domain.Habit{ID: "abc", Version: 1})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Entry GetByID", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM habit_entries WHERE id = \\$1").WithArgs("abc").WillReturnError(badUUID)

		_, err := NewPostgresEntryRepository(db).GetByID(ctx, "abc")

		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("Entry list for malformed habit is empty", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM habit_entries").WillReturnError(badUUID)

		entries, err := NewPostgresEntryRepository(db).ListByHabitID(ctx, "abc", fixedNow.AddDate(0, 0, -1), fixedNow)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Other errors still surface", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM timers WHERE id = \\$1").WillReturnError(&pgconn.PgError{Code: "57014"})

		_, err := NewPostgresTimerRepository(db).GetByID(ctx, "abc")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrTimerNotFound)
	})
}
