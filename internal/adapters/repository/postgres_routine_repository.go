package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type PostgresRoutineRepository struct {
	db *sqlx.DB
}

func NewPostgresRoutineRepository(db *sqlx.DB) *PostgresRoutineRepository {
	return &PostgresRoutineRepository{db: db}
}

// Upsert replaces the row keyed by (user_id, entry_date): one check-in per
// day, replace on key match.
func (r *PostgresRoutineRepository) Upsert(ctx context.Context, entry *domain.RoutineEntry) error {
	query := `
		INSERT INTO routine_entries (
			id, user_id, entry_date, morning, evening, health,
			habits_completed, habits_planned,
			version, created_at, updated_at
		) VALUES (
			:id, :user_id, :entry_date, :morning, :evening, :health,
			:habits_completed, :habits_planned,
			:version, :created_at, :updated_at
		)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET morning = EXCLUDED.morning,
		              evening = EXCLUDED.evening,
		              health = EXCLUDED.health,
		              habits_completed = EXCLUDED.habits_completed,
		              habits_planned = EXCLUDED.habits_planned,
		              version = routine_entries.version + 1,
		              updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PostgresRoutineRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.RoutineEntry, error) {
	var entry domain.RoutineEntry
	query := `SELECT * FROM routine_entries WHERE user_id = $1 AND entry_date = $2`

	err := r.db.GetContext(ctx, &entry, query, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoutineNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRoutineRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.RoutineEntry, error) {
	entries := []*domain.RoutineEntry{}

	query := `
		SELECT * FROM routine_entries
		WHERE user_id = $1
		  AND entry_date >= $2
		  AND entry_date <= $3
		ORDER BY entry_date ASC`

	err := r.db.SelectContext(ctx, &entries, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
