package workers

import (
	"context"
	"log"

	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type EntryRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes a habit's stored streak columns off the request
// path. Entry writes enqueue the habit; the streak itself comes from the
// pure calculator so worker and stats endpoint can never disagree.
type StreakWorker struct {
	habitRepo HabitRepository
	entryRepo EntryRepository
	jobs      chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, eRepo EntryRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo: hRepo,
		entryRepo: eRepo,
		jobs:      make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	entries, err := w.entryRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching entries for %s: %v", job.HabitID, err)
		return
	}

	records := make([]analytics.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, analytics.Record{
			Date:      e.CompletionDate,
			Completed: e.Fulfills(habit.TargetValue),
		})
	}

	streaks := analytics.Streaks(records)

	if habit.CurrentStreak == streaks.Current && habit.LongestStreak == streaks.Longest {
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, streaks.Current, streaks.Longest); err != nil {
		log.Printf("Worker Failed to update streak for %s: %v", habit.ID, err)
		return
	}

	log.Printf("Streak updated for %s: Current=%d, Longest=%d", habit.Title, streaks.Current, streaks.Longest)
}
