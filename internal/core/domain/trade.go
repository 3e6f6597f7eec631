package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTradeNotFound       = errors.New("trade not found")
	ErrTradeConflict       = errors.New("trade version conflict")
	ErrTradeInvalidUserID  = errors.New("invalid user id")
	ErrTradeSymbolEmpty    = errors.New("trade symbol cannot be empty")
	ErrTradeInvalidDate    = errors.New("trade date is required")
	ErrInvalidInstrument   = errors.New("invalid instrument type")
	ErrInvalidTradeSide    = errors.New("invalid trade side (must be long or short)")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrNegativeFee         = errors.New("fee cannot be negative")
	ErrUnauthorized        = errors.New("unauthorized access")
)

const (
	InstrumentEquity  = "equity"
	InstrumentOption  = "option"
	InstrumentFuture  = "future"
	InstrumentForex   = "forex"
	InstrumentCrypto  = "crypto"
	TradeSideLong     = "long"
	TradeSideShort    = "short"
	MaxTradeNotesLen  = 1000
)

// Trade is a single journaled trade. PnL is the realized signed amount for
// the whole position; Fee defaults to zero when the broker report has none.
type Trade struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	TradeDate      time.Time       `json:"trade_date" db:"trade_date"`
	Symbol         string          `json:"symbol" db:"symbol"`
	InstrumentType string          `json:"instrument_type" db:"instrument_type"`
	Side           string          `json:"side" db:"side"`
	Quantity       int             `json:"quantity" db:"quantity"`
	PnL            decimal.Decimal `json:"pnl" db:"pnl"`
	PnLPercent     decimal.Decimal `json:"pnl_percent" db:"pnl_percent"`
	Fee            decimal.Decimal `json:"fee" db:"fee"`
	Notes          string          `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewTrade(userID, symbol, instrument, side string, date time.Time, quantity int, pnl, pnlPercent, fee decimal.Decimal) (*Trade, error) {
	if userID == "" {
		return nil, ErrTradeInvalidUserID
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrTradeSymbolEmpty
	}

	if date.IsZero() {
		return nil, ErrTradeInvalidDate
	}

	if instrument == "" {
		instrument = InstrumentEquity
	}
	switch instrument {
	case InstrumentEquity, InstrumentOption, InstrumentFuture, InstrumentForex, InstrumentCrypto:
	default:
		return nil, ErrInvalidInstrument
	}

	if side == "" {
		side = TradeSideLong
	}
	switch side {
	case TradeSideLong, TradeSideShort:
	default:
		return nil, ErrInvalidTradeSide
	}

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if fee.IsNegative() {
		return nil, ErrNegativeFee
	}

	now := time.Now().UTC()

	return &Trade{
		ID:             uuid.NewString(),
		UserID:         userID,
		TradeDate:      date.UTC().Truncate(24 * time.Hour),
		Symbol:         symbol,
		InstrumentType: instrument,
		Side:           side,
		Quantity:       quantity,
		PnL:            pnl,
		PnLPercent:     pnlPercent,
		Fee:            fee,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (t *Trade) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrTradeInvalidUserID
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return ErrTradeSymbolEmpty
	}
	if t.TradeDate.IsZero() {
		return ErrTradeInvalidDate
	}
	if t.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if t.Fee.IsNegative() {
		return ErrNegativeFee
	}
	if len(t.Notes) > MaxTradeNotesLen {
		return errors.New("notes too long (max 1000 chars)")
	}
	return nil
}

// NetPnL is the realized amount after fees.
func (t *Trade) NetPnL() decimal.Decimal {
	return t.PnL.Sub(t.Fee)
}

func (t *Trade) IsWin() bool {
	return t.PnL.IsPositive()
}
