package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProfitFactorCap stands in for "no losing trades". The snapshot travels as
// JSON and encoding/json cannot represent +Inf, so the ratio is capped.
const ProfitFactorCap = 9999.0

// tradingDaysPerYear annualizes the daily return series (√252 for the
// volatility-based ratios, ×252 for Calmar's return leg).
const tradingDaysPerYear = 252

// TradePoint is the slice of a trade the aggregator needs. Fee is zero when
// the broker report carries none.
type TradePoint struct {
	Date time.Time
	PnL  decimal.Decimal
	Fee  decimal.Decimal
}

type PerformanceMetrics struct {
	TotalPnL     decimal.Decimal `json:"total_pnl"`
	NetPnL       decimal.Decimal `json:"net_pnl"`
	WinRate      float64         `json:"win_rate"`
	ProfitFactor float64         `json:"profit_factor"`
	Expectancy   decimal.Decimal `json:"expectancy"`
}

type RiskMetrics struct {
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`
}

type DrawdownMetrics struct {
	MaxDrawdown        decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownPercent float64         `json:"max_drawdown_percent"`
}

type StreakMetrics struct {
	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`
}

type AnalyticsMeta struct {
	TotalTrades int    `json:"total_trades"`
	TradingDays int    `json:"trading_days"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// TradingAnalytics is the derived snapshot for a period of trades. It is
// recomputed on every request; nothing here is persisted.
type TradingAnalytics struct {
	Performance PerformanceMetrics `json:"performance"`
	Risk        RiskMetrics        `json:"risk_metrics"`
	Drawdown    DrawdownMetrics    `json:"drawdown"`
	Streaks     StreakMetrics      `json:"streaks"`
	Meta        AnalyticsMeta      `json:"meta"`
}

// Aggregate reduces a period's trades to the full analytics snapshot.
//
// Per-trade metrics (win rate, profit factor, expectancy) come straight off
// the trade list. Everything time-dependent - drawdown, the Sharpe family,
// win/loss streaks - runs over daily aggregates (trades grouped by calendar
// day, P&L summed) in one chronologically-sorted pass so the numbers stay
// consistent with each other. Risk-free rate is assumed zero; the "return"
// series is the daily P&L amount.
//
// An empty input yields a zero-valued snapshot, never an error.
func Aggregate(trades []TradePoint) TradingAnalytics {
	res := TradingAnalytics{
		Performance: PerformanceMetrics{
			TotalPnL:   decimal.Zero,
			NetPnL:     decimal.Zero,
			Expectancy: decimal.Zero,
		},
		Drawdown: DrawdownMetrics{MaxDrawdown: decimal.Zero},
	}

	if len(trades) == 0 {
		return res
	}

	wins := 0
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	totalPnL := decimal.Zero
	totalFees := decimal.Zero

	daily := make(map[string]decimal.Decimal)
	for _, t := range trades {
		totalPnL = totalPnL.Add(t.PnL)
		totalFees = totalFees.Add(t.Fee)

		switch {
		case t.PnL.IsPositive():
			wins++
			grossProfit = grossProfit.Add(t.PnL)
		case t.PnL.IsNegative():
			grossLoss = grossLoss.Add(t.PnL.Abs())
		}

		key := t.Date.UTC().Format("2006-01-02")
		daily[key] = daily[key].Add(t.PnL)
	}

	n := len(trades)
	res.Performance.TotalPnL = totalPnL
	res.Performance.NetPnL = totalPnL.Sub(totalFees)
	res.Performance.WinRate = float64(wins) / float64(n) * 100
	res.Performance.Expectancy = totalPnL.Div(decimal.NewFromInt(int64(n))).Round(4)

	if grossLoss.IsZero() {
		if grossProfit.IsPositive() {
			res.Performance.ProfitFactor = ProfitFactorCap
		}
	} else {
		res.Performance.ProfitFactor = grossProfit.Div(grossLoss).InexactFloat64()
	}

	days := make([]string, 0, len(daily))
	for k := range daily {
		days = append(days, k)
	}
	sort.Strings(days)

	res.Meta = AnalyticsMeta{
		TotalTrades: n,
		TradingDays: len(days),
		StartDate:   days[0],
		EndDate:     days[len(days)-1],
	}

	// Single chronological pass: cumulative curve, drawdown (earliest peak
	// wins ties), daily win/loss runs and the return series together.
	var (
		cumulative  = decimal.Zero
		peak        = decimal.Zero
		peakSet     bool
		maxDD       = decimal.Zero
		peakAtMaxDD = decimal.Zero
		winRun      int
		lossRun     int
		returns     = make([]float64, 0, len(days))
	)

	for _, key := range days {
		dayPnL := daily[key]
		returns = append(returns, dayPnL.InexactFloat64())

		cumulative = cumulative.Add(dayPnL)
		if !peakSet || cumulative.GreaterThan(peak) {
			peak = cumulative
			peakSet = true
		}

		dd := peak.Sub(cumulative)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
			peakAtMaxDD = peak
		}

		switch {
		case dayPnL.IsPositive():
			winRun++
			lossRun = 0
		case dayPnL.IsNegative():
			lossRun++
			winRun = 0
		default:
			winRun, lossRun = 0, 0
		}
		if winRun > res.Streaks.LongestWinStreak {
			res.Streaks.LongestWinStreak = winRun
		}
		if lossRun > res.Streaks.LongestLossStreak {
			res.Streaks.LongestLossStreak = lossRun
		}
	}

	res.Drawdown.MaxDrawdown = maxDD
	if maxDD.IsPositive() && peakAtMaxDD.IsPositive() {
		res.Drawdown.MaxDrawdownPercent = maxDD.Div(peakAtMaxDD).InexactFloat64() * 100
	}

	res.Risk = riskRatios(returns, maxDD.InexactFloat64())

	return res
}

func riskRatios(returns []float64, maxDrawdown float64) RiskMetrics {
	var risk RiskMetrics
	if len(returns) == 0 {
		return risk
	}

	sum := 0.0
	for _, r := range returns {
		sum += r
	}
	avg := sum / float64(len(returns))

	variance := 0.0
	downside := 0.0
	for _, r := range returns {
		d := r - avg
		variance += d * d
		if r < 0 {
			downside += r * r
		}
	}
	stdDev := math.Sqrt(variance / float64(len(returns)))
	downsideDev := math.Sqrt(downside / float64(len(returns)))

	annualizer := math.Sqrt(tradingDaysPerYear)
	if stdDev > 0 {
		risk.SharpeRatio = avg / stdDev * annualizer
	}
	if downsideDev > 0 {
		risk.SortinoRatio = avg / downsideDev * annualizer
	}
	// Calmar is left at zero for a flat-or-rising curve: with no drawdown
	// the ratio has no denominator to speak of.
	if maxDrawdown > 0 {
		risk.CalmarRatio = avg * tradingDaysPerYear / maxDrawdown
	}

	return risk
}
