package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

func TestNewRoutineEntry(t *testing.T) {
	t.Run("Success: date truncated to day", func(t *testing.T) {
		entry, err := domain.NewRoutineEntry("user-1", time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), entry.EntryDate)
		assert.Equal(t, "Monday", entry.DayName())
	})

	t.Run("Fail: missing user", func(t *testing.T) {
		_, err := domain.NewRoutineEntry("", time.Now())
		assert.ErrorIs(t, err, domain.ErrRoutineInvalidUserID)
	})

	t.Run("Fail: zero date", func(t *testing.T) {
		_, err := domain.NewRoutineEntry("user-1", time.Time{})
		assert.ErrorIs(t, err, domain.ErrRoutineInvalidDate)
	})
}

func TestRoutineEntry_OverallScore(t *testing.T) {
	newEntry := func() *domain.RoutineEntry {
		entry, err := domain.NewRoutineEntry("user-1", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		return entry
	}

	t.Run("empty day scores zero", func(t *testing.T) {
		assert.Equal(t, 0, newEntry().OverallScore())
	})

	t.Run("each routine category is worth 25", func(t *testing.T) {
		entry := newEntry()
		entry.Morning = true
		assert.Equal(t, 25, entry.OverallScore())

		entry.Evening = true
		entry.Health = true
		assert.Equal(t, 75, entry.OverallScore())
	})

	t.Run("habit fraction fills the last quarter", func(t *testing.T) {
		entry := newEntry()
		entry.Morning = true
		entry.Evening = true
		entry.Health = true
		entry.HabitsPlanned = 4
		entry.HabitsCompleted = 4

		assert.Equal(t, 100, entry.OverallScore())

		entry.HabitsCompleted = 2
		assert.Equal(t, 87, entry.OverallScore())
	})

	t.Run("Edge Case: completed above planned is clamped", func(t *testing.T) {
		entry := newEntry()
		entry.HabitsPlanned = 2
		entry.HabitsCompleted = 5

		assert.Equal(t, 25, entry.OverallScore())
	})

	t.Run("Edge Case: no planned habits leaves the quarter empty", func(t *testing.T) {
		entry := newEntry()
		entry.Morning = true
		entry.HabitsCompleted = 3

		assert.Equal(t, 25, entry.OverallScore())
	})
}
