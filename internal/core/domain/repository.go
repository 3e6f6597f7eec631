package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all active habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete soft-deletes a habit.
	Delete(ctx context.Context, id string) error

	// UpdateStreaks stores a freshly computed streak pair without bumping
	// the habit version (streaks are derived, not user edits).
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type RoutineRepository interface {
	// Upsert replaces the routine entry keyed by (user, date).
	Upsert(ctx context.Context, entry *RoutineEntry) error

	// GetByDate retrieves the entry for a single day, ErrRoutineNotFound if absent.
	GetByDate(ctx context.Context, userID string, date time.Time) (*RoutineEntry, error)

	// ListByDateRange retrieves entries ordered by date ascending. Missing
	// days are simply absent from the result, not zero-filled.
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*RoutineEntry, error)
}

type TradeRepository interface {
	Create(ctx context.Context, trade *Trade) error

	GetByID(ctx context.Context, id string) (*Trade, error)

	// ListByDateRange retrieves active trades ordered by trade date
	// ascending, then creation time. The ordering is what the analytics
	// pass relies on.
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*Trade, error)

	// Update modifies an existing trade under optimistic locking.
	Update(ctx context.Context, trade *Trade) error

	// Delete performs a soft delete, checking ownership.
	Delete(ctx context.Context, id string, userID string) error
}
