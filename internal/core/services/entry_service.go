package services

import (
	"context"
	"time"

	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/workers"
)

type EntryService struct {
	repo      domain.HabitEntryRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewEntryService(repo domain.HabitEntryRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *EntryService {
	return &EntryService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type CreateEntryInput struct {
	HabitID        string
	UserID         string
	CompletionDate time.Time
	Value          int
	Notes          string
}

type UpdateEntryInput struct {
	ID      string
	UserID  string
	Value   int
	Notes   string
	Version int
}

func (s *EntryService) checkOwnership(ctx context.Context, habitID, userID string) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*domain.HabitEntry, error) {
	entry := domain.NewHabitEntry(input.HabitID, input.UserID, input.CompletionDate, input.Value)
	entry.Notes = input.Notes

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, entry.HabitID, entry.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.HabitID)

	return entry, nil
}

// Upsert is the "mark today" write: it replaces whatever entry already
// exists for the (habit, date) key instead of failing on conflict.
func (s *EntryService) Upsert(ctx context.Context, input CreateEntryInput) (*domain.HabitEntry, error) {
	entry := domain.NewHabitEntry(input.HabitID, input.UserID, input.CompletionDate, input.Value)
	entry.Notes = input.Notes

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, entry.HabitID, entry.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.HabitID)

	return entry, nil
}

func (s *EntryService) GetByID(ctx context.Context, id, userID string) (*domain.HabitEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrEntryNotFound
	}
	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, input UpdateEntryInput) (*domain.HabitEntry, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	existing.Value = input.Value
	existing.Notes = input.Notes
	existing.Version = input.Version

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.HabitID)

	return existing, nil
}

func (s *EntryService) Delete(ctx context.Context, id, userID string) error {
	entry, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(entry.HabitID)
	return nil
}

func (s *EntryService) ListByHabit(ctx context.Context, habitID, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	if err := s.checkOwnership(ctx, habitID, userID); err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.repo.ListByHabitID(ctx, habitID)
	}
	return s.repo.ListByHabitIDAndDateRange(ctx, habitID, from, to)
}
