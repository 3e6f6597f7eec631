package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
		INSERT INTO habits (
			id, user_id, title, description, color, icon, sort_order,
			type, target_value, unit,
			current_streak, longest_streak,
			version, created_at, updated_at, archived_at, deleted_at
		) VALUES (
			:id, :user_id, :title, :description, :color, :icon, :sort_order,
			:type, :target_value, :unit,
			:current_streak, :longest_streak,
			1, :created_at, :updated_at, :archived_at, NULL
		)`

	if _, err := r.db.NamedExecContext(ctx, query, h); err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var h domain.Habit
	query := `SELECT * FROM habits WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &h, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return &h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}

	query := `
		SELECT * FROM habits
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY sort_order ASC, created_at DESC`

	err := r.db.SelectContext(ctx, &habits, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	h.Version++
	h.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE habits
		SET title = :title,
		    description = :description,
		    color = :color,
		    icon = :icon,
		    sort_order = :sort_order,
		    type = :type,
		    target_value = :target_value,
		    unit = :unit,
		    archived_at = :archived_at,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1  -- Optimistic Lock check
		  AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, h)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, h.ID)
		if !exists {
			return domain.ErrHabitNotFound
		}
		return domain.ErrHabitConflict
	}

	return nil
}

// UpdateStreaks writes derived streak columns only. No version bump: the
// worker must not conflict with user edits in flight.
func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
		UPDATE habits
		SET current_streak = $1,
		    longest_streak = $2,
		    updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, current, longest, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE habits
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM habits WHERE id = $1", id)
	return count > 0, err
}
