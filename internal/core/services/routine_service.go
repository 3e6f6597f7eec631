package services

import (
	"context"
	"errors"
	"time"

	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type RoutineService struct {
	repo      domain.RoutineRepository
	habitRepo domain.HabitRepository
	entryRepo domain.HabitEntryRepository
}

func NewRoutineService(repo domain.RoutineRepository, habitRepo domain.HabitRepository, entryRepo domain.HabitEntryRepository) *RoutineService {
	return &RoutineService{
		repo:      repo,
		habitRepo: habitRepo,
		entryRepo: entryRepo,
	}
}

type UpsertRoutineInput struct {
	UserID    string
	EntryDate time.Time
	Morning   bool
	Evening   bool
	Health    bool
}

// DailySnapshot is the derived per-day view: routine flags plus the habit
// completion count and the rolled-up score. Recomputed on every read.
type DailySnapshot struct {
	Date            string `json:"date"`
	DayName         string `json:"day_name"`
	Morning         bool   `json:"morning"`
	Evening         bool   `json:"evening"`
	Health          bool   `json:"health"`
	HabitsCompleted int    `json:"habits_completed"`
	HabitsPlanned   int    `json:"habits_planned"`
	OverallScore    int    `json:"overall_score"`
}

// Upsert stores the routine check-in for one day, folding in the current
// habit completion count so the stored row matches what the user saw.
func (s *RoutineService) Upsert(ctx context.Context, input UpsertRoutineInput) (*domain.RoutineEntry, error) {
	entry, err := domain.NewRoutineEntry(input.UserID, input.EntryDate)
	if err != nil {
		return nil, err
	}

	entry.Morning = input.Morning
	entry.Evening = input.Evening
	entry.Health = input.Health

	completed, planned, err := s.habitProgress(ctx, input.UserID, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	entry.HabitsCompleted = completed
	entry.HabitsPlanned = planned

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetDay returns the snapshot for one day. A day with no check-in is a
// valid all-false snapshot, not an error.
func (s *RoutineService) GetDay(ctx context.Context, userID string, date time.Time) (*DailySnapshot, error) {
	date = date.UTC().Truncate(24 * time.Hour)

	entry, err := s.repo.GetByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrRoutineNotFound) {
			blank := &domain.RoutineEntry{UserID: userID, EntryDate: date}
			return s.toSnapshot(blank), nil
		}
		return nil, err
	}

	return s.toSnapshot(entry), nil
}

// GetWeeklyTrend assembles the 7 positional trend points for the week
// beginning at weekStart and classifies the direction. Days without a
// check-in contribute zero scores.
func (s *RoutineService) GetWeeklyTrend(ctx context.Context, userID string, weekStart time.Time) (*analytics.TrendAnalysis, []analytics.TrendPoint, error) {
	weekStart = weekStart.UTC().Truncate(24 * time.Hour)
	weekEnd := weekStart.AddDate(0, 0, 6)

	entries, err := s.repo.ListByDateRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, err
	}

	byDay := make(map[string]*domain.RoutineEntry, len(entries))
	for _, e := range entries {
		byDay[e.EntryDate.Format("2006-01-02")] = e
	}

	points := make([]analytics.TrendPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		point := analytics.TrendPoint{Label: day.Weekday().String()[:3]}

		if e, ok := byDay[day.Format("2006-01-02")]; ok {
			point.Morning = categoryScore(e.Morning)
			point.Evening = categoryScore(e.Evening)
			point.Health = categoryScore(e.Health)
			point.Overall = float64(e.OverallScore())
		}

		points = append(points, point)
	}

	trend, err := analytics.AnalyzeWeek(points)
	if err != nil {
		return nil, nil, err
	}

	return &trend, points, nil
}

func categoryScore(done bool) float64 {
	if done {
		return 100
	}
	return 0
}

func (s *RoutineService) toSnapshot(e *domain.RoutineEntry) *DailySnapshot {
	return &DailySnapshot{
		Date:            e.EntryDate.Format("2006-01-02"),
		DayName:         e.DayName(),
		Morning:         e.Morning,
		Evening:         e.Evening,
		Health:          e.Health,
		HabitsCompleted: e.HabitsCompleted,
		HabitsPlanned:   e.HabitsPlanned,
		OverallScore:    e.OverallScore(),
	}
}

func (s *RoutineService) habitProgress(ctx context.Context, userID string, date time.Time) (completed, planned int, err error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	entries, err := s.entryRepo.ListByUserIDAndDateRange(ctx, userID, date, date)
	if err != nil {
		return 0, 0, err
	}

	valueByHabit := make(map[string]int, len(entries))
	for _, e := range entries {
		valueByHabit[e.HabitID] += e.Value
	}

	for _, h := range habits {
		if h.ArchivedAt != nil {
			continue
		}
		planned++
		if valueByHabit[h.ID] >= h.TargetValue {
			completed++
		}
	}

	return completed, planned, nil
}
