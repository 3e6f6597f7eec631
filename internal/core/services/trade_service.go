package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

type TradeService struct {
	repo domain.TradeRepository
}

func NewTradeService(repo domain.TradeRepository) *TradeService {
	return &TradeService{
		repo: repo,
	}
}

type CreateTradeInput struct {
	UserID         string
	TradeDate      time.Time
	Symbol         string
	InstrumentType string
	Side           string
	Quantity       int
	PnL            decimal.Decimal
	PnLPercent     decimal.Decimal
	Fee            decimal.Decimal
	Notes          string
}

type UpdateTradeInput struct {
	ID         string
	UserID     string
	Quantity   int
	PnL        decimal.Decimal
	PnLPercent decimal.Decimal
	Fee        decimal.Decimal
	Notes      string
	Version    int
}

// TradeDay groups one calendar day's trades for the journal view; the day
// total is the sum of its trades' P&L.
type TradeDay struct {
	Date     string          `json:"date"`
	TotalPnL decimal.Decimal `json:"total_pnl"`
	Trades   []*domain.Trade `json:"trades"`
}

func (s *TradeService) Create(ctx context.Context, input CreateTradeInput) (*domain.Trade, error) {
	trade, err := domain.NewTrade(
		input.UserID,
		input.Symbol,
		input.InstrumentType,
		input.Side,
		input.TradeDate,
		input.Quantity,
		input.PnL,
		input.PnLPercent,
		input.Fee,
	)
	if err != nil {
		return nil, err
	}

	trade.Notes = input.Notes
	if err := trade.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, trade); err != nil {
		return nil, err
	}

	return trade, nil
}

func (s *TradeService) GetByID(ctx context.Context, id, userID string) (*domain.Trade, error) {
	trade, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.UserID != userID {
		return nil, domain.ErrTradeNotFound
	}
	return trade, nil
}

func (s *TradeService) Update(ctx context.Context, input UpdateTradeInput) (*domain.Trade, error) {
	trade, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && trade.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrTradeConflict, input.Version, trade.Version)
	}

	if input.Quantity > 0 {
		trade.Quantity = input.Quantity
	}
	trade.PnL = input.PnL
	trade.PnLPercent = input.PnLPercent
	trade.Fee = input.Fee
	trade.Notes = input.Notes
	trade.UpdatedAt = time.Now().UTC()

	if err := trade.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, trade); err != nil {
		return nil, err
	}

	return trade, nil
}

func (s *TradeService) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

// ListByDateRange returns the period's trades grouped by day, newest day
// first, preserving trade order inside each day.
func (s *TradeService) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*TradeDay, error) {
	trades, err := s.repo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var days []*TradeDay
	byDay := make(map[string]*TradeDay)

	for _, t := range trades {
		key := t.TradeDate.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &TradeDay{Date: key, TotalPnL: decimal.Zero}
			byDay[key] = day
			days = append(days, day)
		}
		day.Trades = append(day.Trades, t)
		day.TotalPnL = day.TotalPnL.Add(t.PnL)
	}

	// Repo returns oldest-first; the journal shows newest day on top.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	return days, nil
}
