package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/services"
)

// PDFRenderer produces the trading summary document. One A4 page: a header
// block, then one two-column table per metric group.
type PDFRenderer struct{}

var _ services.ReportRenderer = (*PDFRenderer)(nil)

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(snapshot analytics.TradingAnalytics, meta services.ReportMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("%s - Trading Summary", meta.AppName))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	period := "no trades in period"
	if snapshot.Meta.StartDate != "" {
		period = fmt.Sprintf("%s to %s", snapshot.Meta.StartDate, snapshot.Meta.EndDate)
	}
	pdf.Cell(0, 6, fmt.Sprintf("%s | %s | generated %s",
		meta.Username, period, time.Now().UTC().Format("2006-01-02")))
	pdf.Ln(12)
	pdf.SetTextColor(0, 0, 0)

	r.section(pdf, "Performance", [][2]string{
		{"Total P&L", snapshot.Performance.TotalPnL.StringFixed(2)},
		{"Net P&L", snapshot.Performance.NetPnL.StringFixed(2)},
		{"Win Rate", fmt.Sprintf("%.2f%%", snapshot.Performance.WinRate)},
		{"Profit Factor", fmt.Sprintf("%.2f", snapshot.Performance.ProfitFactor)},
		{"Expectancy", snapshot.Performance.Expectancy.StringFixed(2)},
	})

	r.section(pdf, "Risk", [][2]string{
		{"Sharpe Ratio", fmt.Sprintf("%.2f", snapshot.Risk.SharpeRatio)},
		{"Sortino Ratio", fmt.Sprintf("%.2f", snapshot.Risk.SortinoRatio)},
		{"Calmar Ratio", fmt.Sprintf("%.2f", snapshot.Risk.CalmarRatio)},
	})

	r.section(pdf, "Drawdown", [][2]string{
		{"Max Drawdown", snapshot.Drawdown.MaxDrawdown.StringFixed(2)},
		{"Max Drawdown %", fmt.Sprintf("%.2f%%", snapshot.Drawdown.MaxDrawdownPercent)},
	})

	r.section(pdf, "Streaks", [][2]string{
		{"Longest Win Streak", fmt.Sprintf("%d days", snapshot.Streaks.LongestWinStreak)},
		{"Longest Loss Streak", fmt.Sprintf("%d days", snapshot.Streaks.LongestLossStreak)},
	})

	r.section(pdf, "Activity", [][2]string{
		{"Total Trades", fmt.Sprintf("%d", snapshot.Meta.TotalTrades)},
		{"Trading Days", fmt.Sprintf("%d", snapshot.Meta.TradingDays)},
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) section(pdf *gofpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(4)
}
