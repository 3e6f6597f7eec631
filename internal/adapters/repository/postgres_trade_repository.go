package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type PostgresTradeRepository struct {
	db *sqlx.DB
}

func NewPostgresTradeRepository(db *sqlx.DB) *PostgresTradeRepository {
	return &PostgresTradeRepository{db: db}
}

func (r *PostgresTradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (
			id, user_id, trade_date, symbol, instrument_type, side,
			quantity, pnl, pnl_percent, fee, notes,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :user_id, :trade_date, :symbol, :instrument_type, :side,
			:quantity, :pnl, :pnl_percent, :fee, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, trade)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresTradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	var trade domain.Trade
	query := `SELECT * FROM trades WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &trade, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *PostgresTradeRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Trade, error) {
	trades := []*domain.Trade{}

	query := `
		SELECT * FROM trades
		WHERE user_id = $1
		  AND trade_date >= $2
		  AND trade_date <= $3
		  AND deleted_at IS NULL
		ORDER BY trade_date ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &trades, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *PostgresTradeRepository) Update(ctx context.Context, trade *domain.Trade) error {
	trade.Version++
	trade.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE trades
		SET quantity = :quantity,
		    pnl = :pnl,
		    pnl_percent = :pnl_percent,
		    fee = :fee,
		    notes = :notes,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1  -- Optimistic Lock check
		  AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, trade)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, trade.ID)
		if !exists {
			return domain.ErrTradeNotFound
		}
		return domain.ErrTradeConflict
	}

	return nil
}

func (r *PostgresTradeRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE trades
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3 -- Security Check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTradeNotFound
	}

	return nil
}

func (r *PostgresTradeRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM trades WHERE id = $1", id)
	return count > 0, err
}
