package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoutineNotFound      = errors.New("routine entry not found")
	ErrRoutineConflict      = errors.New("routine entry version conflict")
	ErrRoutineInvalidUserID = errors.New("invalid user id")
	ErrRoutineInvalidDate   = errors.New("routine date is required")
)

// Weights of each routine category in the overall daily score. Habits fill
// the remainder proportionally to how many were completed that day.
const (
	routineCategoryWeight = 25
	routineHabitsWeight   = 25
)

// RoutineEntry is the per-day routine check-in: one row per (user, date),
// replaced on upsert. The overall score is derived, never stored stale.
type RoutineEntry struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	EntryDate time.Time `json:"entry_date" db:"entry_date"`
	Morning   bool      `json:"morning" db:"morning"`
	Evening   bool      `json:"evening" db:"evening"`
	Health    bool      `json:"health" db:"health"`

	HabitsCompleted int `json:"habits_completed" db:"habits_completed"`
	HabitsPlanned   int `json:"habits_planned" db:"habits_planned"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewRoutineEntry(userID string, date time.Time) (*RoutineEntry, error) {
	if userID == "" {
		return nil, ErrRoutineInvalidUserID
	}
	if date.IsZero() {
		return nil, ErrRoutineInvalidDate
	}

	now := time.Now().UTC()
	return &RoutineEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		EntryDate: date.UTC().Truncate(24 * time.Hour),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OverallScore rolls the day up to 0-100: 25 points per completed routine
// category plus up to 25 points for the habit completion fraction.
func (r *RoutineEntry) OverallScore() int {
	score := 0
	if r.Morning {
		score += routineCategoryWeight
	}
	if r.Evening {
		score += routineCategoryWeight
	}
	if r.Health {
		score += routineCategoryWeight
	}

	if r.HabitsPlanned > 0 {
		done := r.HabitsCompleted
		if done > r.HabitsPlanned {
			done = r.HabitsPlanned
		}
		score += done * routineHabitsWeight / r.HabitsPlanned
	}

	return score
}

func (r *RoutineEntry) DayName() string {
	return r.EntryDate.Weekday().String()
}
