package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

func (e *testEnv) logEntry(t *testing.T, habitID, date string, value int) {
	t.Helper()
	body := fmt.Sprintf(`{"habit_id": %q, "completion_date": %q, "value": %d}`, habitID, date, value)
	w := e.do("POST", "/api/v1/entries", "user-1", body)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestStatsHandler_GetWeeklyStats(t *testing.T) {
	env := newTestEnv(t)
	habit := env.seedHabit(t, "user-1", "Read")

	env.logEntry(t, habit.ID, "2026-03-09", 1)
	env.logEntry(t, habit.ID, "2026-03-11", 1)

	w := env.do("GET", "/api/v1/stats/weekly?start_date=2026-03-09&end_date=2026-03-15", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.WeeklyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))

	assert.Equal(t, "2026-03-09", stats.StartDate)
	assert.Equal(t, "2026-03-15", stats.EndDate)
	assert.Equal(t, 1, stats.TotalHabits)
	require.Len(t, stats.HabitStats, 1)
	assert.Equal(t, 2, stats.HabitStats[0].DaysCompleted)
	assert.Equal(t, []int{1, 0, 1, 0, 0, 0, 0}, stats.HabitStats[0].DailyProgress)
	assert.InDelta(t, 28.57, stats.HabitStats[0].CompletionRate, 0.01)

	t.Run("Fail: 400 when start is after end", func(t *testing.T) {
		w := env.do("GET", "/api/v1/stats/weekly?start_date=2026-03-15&end_date=2026-03-09", "user-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 on malformed date", func(t *testing.T) {
		w := env.do("GET", "/api/v1/stats/weekly?start_date=yesterday", "user-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatsHandler_GetStreakSummary(t *testing.T) {
	env := newTestEnv(t)
	habit := env.seedHabit(t, "user-1", "Read")

	// Three consecutive days, a gap, then two consecutive days.
	for _, date := range []string{"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-13", "2026-03-14"} {
		env.logEntry(t, habit.ID, date, 1)
	}

	w := env.do("GET", "/api/v1/stats/streaks/"+habit.ID+"?start_date=2026-03-09&end_date=2026-03-14", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.StreakSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, habit.ID, summary.HabitID)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.Equal(t, 3, summary.LongestStreak)
	assert.InDelta(t, 83.33, summary.CompletionRate, 0.01)

	t.Run("Fail: 404 for another user's habit", func(t *testing.T) {
		w := env.do("GET", "/api/v1/stats/streaks/"+habit.ID, "user-2", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 404 for unknown habit", func(t *testing.T) {
		w := env.do("GET", "/api/v1/stats/streaks/nope", "user-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
