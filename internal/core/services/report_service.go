package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/domain"
)

var ErrExportFailed = errors.New("report export failed")

// ReportMeta names the artifact; both fields end up in the file name and
// the document header.
type ReportMeta struct {
	Username string
	AppName  string
}

// ReportRenderer turns an analytics snapshot into a downloadable document.
// Kept narrow so tests can swap in a stub and the PDF dependency stays
// behind one adapter.
type ReportRenderer interface {
	Render(snapshot analytics.TradingAnalytics, meta ReportMeta) ([]byte, error)
}

type ReportService struct {
	tradeRepo domain.TradeRepository
	userRepo  domain.UserRepository
	renderer  ReportRenderer
	appName   string
}

func NewReportService(tradeRepo domain.TradeRepository, userRepo domain.UserRepository, renderer ReportRenderer, appName string) *ReportService {
	return &ReportService{
		tradeRepo: tradeRepo,
		userRepo:  userRepo,
		renderer:  renderer,
		appName:   appName,
	}
}

// GetTradingAnalytics recomputes the full snapshot for the period. Nothing
// is cached: recomputation is cheap and always consistent with the stored
// trades.
func (s *ReportService) GetTradingAnalytics(ctx context.Context, userID string, from, to time.Time) (*analytics.TradingAnalytics, error) {
	trades, err := s.tradeRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]analytics.TradePoint, 0, len(trades))
	for _, t := range trades {
		points = append(points, analytics.TradePoint{
			Date: t.TradeDate,
			PnL:  t.PnL,
			Fee:  t.Fee,
		})
	}

	snapshot := analytics.Aggregate(points)
	return &snapshot, nil
}

// ExportTradesCSV serializes the period's trades, oldest first, with a
// fixed header row.
func (s *ReportService) ExportTradesCSV(ctx context.Context, userID string, from, to time.Time) (string, error) {
	trades, err := s.tradeRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"date", "symbol", "instrument", "side", "quantity", "pnl", "pnl_percent", "fee", "notes"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	for _, t := range trades {
		record := []string{
			t.TradeDate.Format("2006-01-02"),
			t.Symbol,
			t.InstrumentType,
			t.Side,
			fmt.Sprintf("%d", t.Quantity),
			t.PnL.String(),
			t.PnLPercent.String(),
			t.Fee.String(),
			t.Notes,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	return sb.String(), nil
}

// ExportSummaryPDF renders the period's analytics snapshot through the
// configured renderer. The artifact name is deterministic: same user, same
// period, same name.
func (s *ReportService) ExportSummaryPDF(ctx context.Context, userID string, from, to time.Time) ([]byte, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	snapshot, err := s.GetTradingAnalytics(ctx, userID, from, to)
	if err != nil {
		return nil, "", err
	}

	meta := ReportMeta{Username: user.Username, AppName: s.appName}

	data, err := s.renderer.Render(*snapshot, meta)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	name := fmt.Sprintf("%s_%s_%s_%s.pdf",
		strings.ToLower(s.appName),
		strings.ToLower(user.Username),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	return data, name, nil
}
