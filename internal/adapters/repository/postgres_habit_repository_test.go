package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "daypulse_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "daypulse_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE habit_entries, habits, routine_entries, trades, users CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func seedDBUser(t *testing.T, db *sqlx.DB, id, email string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
        VALUES ($1, $2, $2, 'hash', NOW(), NOW())`, id, email)
	require.NoError(t, err, "Failed to create user fixture")
}

func TestPostgresHabitRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresHabitRepository(db)
	ctx := context.Background()

	userID := "habit-repo-user"
	seedDBUser(t, db, userID, "habit-repo@daypulse.app")

	now := time.Now().UTC()
	habitID := uuid.New().String()

	newHabit := &domain.Habit{
		ID:          habitID,
		UserID:      userID,
		Title:       "Morning run",
		Description: "5k before work",
		Color:       "#FF5733",
		Icon:        "target",
		SortOrder:   1,
		Type:        domain.HabitTypeNumeric,
		TargetValue: 5,
		Unit:        "km",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("Create Habit", func(t *testing.T) {
		err := repo.Create(ctx, newHabit)
		assert.NoError(t, err)
	})

	t.Run("Get By ID", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, habitID)
		assert.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, newHabit.ID, fetched.ID)
		assert.Equal(t, 1, fetched.Version)
		assert.Nil(t, fetched.DeletedAt)
	})

	t.Run("Update Habit", func(t *testing.T) {
		oldUpdatedAt := newHabit.UpdatedAt

		newHabit.Title = "Evening run"
		newHabit.TargetValue = 10

		time.Sleep(100 * time.Millisecond)

		err := repo.Update(ctx, newHabit)
		assert.NoError(t, err)

		updated, err := repo.GetByID(ctx, habitID)
		assert.NoError(t, err)

		assert.Equal(t, "Evening run", updated.Title)
		assert.True(t, updated.UpdatedAt.After(oldUpdatedAt))
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Update Streaks Without Version Bump", func(t *testing.T) {
		err := repo.UpdateStreaks(ctx, habitID, 4, 9)
		assert.NoError(t, err)

		fetched, err := repo.GetByID(ctx, habitID)
		assert.NoError(t, err)
		assert.Equal(t, 4, fetched.CurrentStreak)
		assert.Equal(t, 9, fetched.LongestStreak)
		assert.Equal(t, 2, fetched.Version, "streak writes must not advance the version")
	})

	t.Run("List By UserID", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, habitID, list[0].ID)
	})

	t.Run("Delete Habit (Soft Delete Check)", func(t *testing.T) {
		err := repo.Delete(ctx, habitID)
		assert.NoError(t, err)

		_, err = repo.GetByID(ctx, habitID)
		assert.Error(t, err)
		assert.Equal(t, domain.ErrHabitNotFound, err)

		var count int
		err = db.QueryRow("SELECT count(*) FROM habits WHERE id=$1 AND deleted_at IS NOT NULL", habitID).Scan(&count)
		assert.NoError(t, err)
		assert.Equal(t, 1, count, "the row must survive physically after a soft delete")
	})

	t.Run("Update/Delete Non-Existent ID", func(t *testing.T) {
		randomID := uuid.New().String()
		dummyHabit := &domain.Habit{ID: randomID, UserID: userID, Title: "Ghost", Type: domain.HabitTypeBoolean, TargetValue: 1, Version: 1}

		err := repo.Update(ctx, dummyHabit)
		assert.Error(t, err)
		assert.Equal(t, domain.ErrHabitNotFound, err)

		err = repo.Delete(ctx, randomID)
		assert.Error(t, err)
		assert.Equal(t, domain.ErrHabitNotFound, err)
	})

	t.Run("Optimistic Locking: Prevent Overwrite", func(t *testing.T) {
		conflictID := uuid.New().String()
		h := &domain.Habit{ID: conflictID, UserID: userID, Title: "Conflict Base", Type: domain.HabitTypeBoolean, TargetValue: 1, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repo.Create(ctx, h))

		deviceACopy, err := repo.GetByID(ctx, conflictID)
		require.NoError(t, err)

		deviceBCopy, err := repo.GetByID(ctx, conflictID)
		require.NoError(t, err)

		deviceBCopy.Title = "B wins"
		require.NoError(t, repo.Update(ctx, deviceBCopy))

		deviceACopy.Title = "A loses"
		err = repo.Update(ctx, deviceACopy)

		assert.Error(t, err)
		assert.Equal(t, domain.ErrHabitConflict, err)
	})
}
