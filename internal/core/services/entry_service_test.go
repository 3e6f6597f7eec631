package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valedagnoli/daypulse/internal/adapters/repository"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
	"github.com/valedagnoli/daypulse/internal/core/workers"
)

type entryFixture struct {
	svc   *services.EntryService
	habit *domain.Habit
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()

	habitRepo := repository.NewInMemoryHabitRepository()
	entryRepo := repository.NewInMemoryEntryRepository()
	worker := workers.NewStreakWorker(habitRepo, entryRepo)

	habit, err := domain.NewHabit("user-1", "Read", "", "", "", domain.HabitTypeNumeric, "pages", 10)
	require.NoError(t, err)
	require.NoError(t, habitRepo.Create(context.Background(), habit))

	return &entryFixture{
		svc:   services.NewEntryService(entryRepo, habitRepo, worker),
		habit: habit,
	}
}

func TestEntryService_Create(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("Success: entry stored for the habit's day", func(t *testing.T) {
		f := newEntryFixture(t)

		entry, err := f.svc.Create(ctx, services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: date,
			Value:          12,
		})

		require.NoError(t, err)
		assert.Equal(t, date, entry.CompletionDate)
		assert.True(t, entry.Fulfills(f.habit.TargetValue))
	})

	t.Run("Fail: duplicate day conflicts", func(t *testing.T) {
		f := newEntryFixture(t)
		input := services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: date,
			Value:          5,
		}

		_, err := f.svc.Create(ctx, input)
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, input)
		assert.ErrorIs(t, err, domain.ErrEntryConflict)
	})

	t.Run("Fail: another user's habit", func(t *testing.T) {
		f := newEntryFixture(t)

		_, err := f.svc.Create(ctx, services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-2",
			CompletionDate: date,
			Value:          5,
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestEntryService_Upsert(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("Success: second write overwrites the first", func(t *testing.T) {
		f := newEntryFixture(t)
		input := services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: date,
			Value:          5,
		}

		first, err := f.svc.Upsert(ctx, input)
		require.NoError(t, err)

		input.Value = 15
		second, err := f.svc.Upsert(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 15, second.Value)

		entries, err := f.svc.ListByHabit(ctx, f.habit.ID, "user-1", time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 15, entries[0].Value)
	})
}

func TestEntryService_Update(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("Success: value and notes replaced under the right version", func(t *testing.T) {
		f := newEntryFixture(t)

		entry, err := f.svc.Create(ctx, services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: date,
			Value:          5,
		})
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, services.UpdateEntryInput{
			ID:      entry.ID,
			UserID:  "user-1",
			Value:   11,
			Notes:   "finished the chapter",
			Version: entry.Version,
		})
		require.NoError(t, err)
		assert.Equal(t, 11, updated.Value)
		assert.Equal(t, entry.Version+1, updated.Version)
	})

	t.Run("Fail: stale version", func(t *testing.T) {
		f := newEntryFixture(t)

		entry, err := f.svc.Create(ctx, services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: date,
			Value:          5,
		})
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, services.UpdateEntryInput{
			ID:      entry.ID,
			UserID:  "user-1",
			Value:   11,
			Version: entry.Version + 5,
		})
		assert.ErrorIs(t, err, domain.ErrEntryConflict)
	})
}

func TestEntryService_Delete(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	f := newEntryFixture(t)

	entry, err := f.svc.Create(ctx, services.CreateEntryInput{
		HabitID:        f.habit.ID,
		UserID:         "user-1",
		CompletionDate: date,
		Value:          5,
	})
	require.NoError(t, err)

	t.Run("Fail: wrong owner", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Delete(ctx, entry.ID, "user-2"), domain.ErrEntryNotFound)
	})

	t.Run("Success: entry disappears", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, entry.ID, "user-1"))

		_, err := f.svc.GetByID(ctx, entry.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}

func TestEntryService_ListByHabit(t *testing.T) {
	ctx := context.Background()
	f := newEntryFixture(t)

	for day := 1; day <= 5; day++ {
		_, err := f.svc.Create(ctx, services.CreateEntryInput{
			HabitID:        f.habit.ID,
			UserID:         "user-1",
			CompletionDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Value:          day,
		})
		require.NoError(t, err)
	}

	t.Run("range filter is inclusive and ascending", func(t *testing.T) {
		entries, err := f.svc.ListByHabit(ctx, f.habit.ID, "user-1",
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.True(t, entries[0].CompletionDate.Before(entries[2].CompletionDate))
	})
}
