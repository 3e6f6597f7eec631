package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEntryNotFound = errors.New("habit entry not found")
	ErrEntryConflict = errors.New("habit entry version conflict")
)

type HabitEntryRepository interface {
	// Create persists a new entry to the storage.
	Create(ctx context.Context, entry *HabitEntry) error

	// Upsert replaces the entry keyed by (habit, date): the natural write
	// for "mark today done" regardless of whether a row already exists.
	Upsert(ctx context.Context, entry *HabitEntry) error

	// Update modifies an existing entry.
	// Implementations must handle Optimistic Locking (version check) to prevent data races.
	Update(ctx context.Context, entry *HabitEntry) error

	// Delete performs a Soft Delete on the entry.
	// It requires userID to ensure the user actually owns the entry being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) entry by its ID.
	GetByID(ctx context.Context, id string) (*HabitEntry, error)

	// ListByHabitID retrieves all active entries for a habit ordered by
	// completion date ascending. Streak computation depends on the order.
	ListByHabitID(ctx context.Context, habitID string) ([]*HabitEntry, error)

	// ListByHabitIDAndDateRange retrieves entries for a habit within a date
	// range, ordered by completion date ascending.
	ListByHabitIDAndDateRange(ctx context.Context, habitID string, from, to time.Time) ([]*HabitEntry, error)

	// ListByUserIDAndDateRange retrieves all of a user's entries in a range,
	// across habits. Used by the weekly stats rollup.
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*HabitEntry, error)
}
