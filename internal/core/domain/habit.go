package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidTarget      = errors.New("target cannot be negative")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
	ErrInvalidHabitType   = errors.New("invalid habit type (must be boolean or numeric)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	HabitTypeBoolean = "boolean"
	HabitTypeNumeric = "numeric"
	DefaultIcon      = "default_icon"
	MaxTitleLen      = 100
	MaxDescLen       = 500
)

// Habit is a daily-tracked habit. Every calendar day is expected: a day
// without an entry counts against streaks and completion rates.
type Habit struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	Color       string `json:"color" db:"color"`
	Icon        string `json:"icon" db:"icon"`
	SortOrder   int    `json:"sort_order" db:"sort_order"`
	Type        string `json:"type" db:"type"`
	TargetValue int    `json:"target_value" db:"target_value"`
	Unit        string `json:"unit" db:"unit"`

	// Maintained asynchronously by the streak worker.
	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version    int        `json:"version" db:"version"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateHabit(title, desc, color, hType string, target int) (int, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return 0, ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return 0, ErrHabitTitleTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return 0, ErrHabitDescTooLong
	}

	switch hType {
	case HabitTypeBoolean, HabitTypeNumeric:
	default:
		return 0, ErrInvalidHabitType
	}

	finalTarget := target
	if hType == HabitTypeBoolean {
		finalTarget = 1
	} else if target < 0 {
		return 0, ErrInvalidTarget
	}
	if finalTarget < 1 {
		finalTarget = 1
	}

	if color != "" && !colorRegex.MatchString(color) {
		return 0, ErrInvalidColor
	}

	return finalTarget, nil
}

func NewHabit(userID, title, description, color, icon, hType, unit string, target int) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if hType == "" {
		hType = HabitTypeBoolean
	}

	cleanDesc := strings.TrimSpace(description)

	safeTarget, err := validateHabit(title, cleanDesc, color, hType, target)
	if err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: cleanDesc,
		Color:       color,
		Icon:        icon,
		Type:        hType,
		Unit:        unit,
		TargetValue: safeTarget,
		SortOrder:   0,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(title, description, color, icon, hType, unit string, target int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	if hType == "" {
		hType = h.Type
	}

	cleanDesc := strings.TrimSpace(description)

	safeTarget, err := validateHabit(title, cleanDesc, color, hType, target)
	if err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(title)
	h.Description = cleanDesc
	h.Color = color
	h.Icon = icon
	h.Type = hType
	h.Unit = unit
	h.TargetValue = safeTarget
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStreak stores a freshly computed streak pair on the habit.
func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
