package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/valedagnoli/daypulse/internal/core/analytics"
)

func tp(date time.Time, pnl float64) analytics.TradePoint {
	return analytics.TradePoint{Date: date, PnL: decimal.NewFromFloat(pnl)}
}

func TestAggregate_Performance(t *testing.T) {
	t.Run("Edge Case: no trades yields a zero snapshot", func(t *testing.T) {
		res := analytics.Aggregate(nil)

		assert.True(t, res.Performance.TotalPnL.IsZero())
		assert.Equal(t, 0.0, res.Performance.WinRate)
		assert.Equal(t, 0.0, res.Performance.ProfitFactor)
		assert.Equal(t, 0, res.Meta.TotalTrades)
		assert.True(t, res.Drawdown.MaxDrawdown.IsZero())
	})

	t.Run("Success: win rate, total and expectancy", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 5, 1), 100),
			tp(d(2024, 5, 2), -50),
			tp(d(2024, 5, 3), 30),
		}

		res := analytics.Aggregate(trades)

		assert.InDelta(t, 66.67, res.Performance.WinRate, 0.01)
		assert.Equal(t, "80", res.Performance.TotalPnL.String())
		assert.InDelta(t, 26.67, res.Performance.Expectancy.InexactFloat64(), 0.01)
		assert.Equal(t, 3, res.Meta.TotalTrades)
		assert.Equal(t, "2024-05-01", res.Meta.StartDate)
		assert.Equal(t, "2024-05-03", res.Meta.EndDate)
	})

	t.Run("Success: profit factor divides gross gains by gross losses", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 5, 1), 120),
			tp(d(2024, 5, 2), -40),
			tp(d(2024, 5, 3), -20),
		}

		res := analytics.Aggregate(trades)

		assert.InDelta(t, 2.0, res.Performance.ProfitFactor, 0.001)
	})

	t.Run("Edge Case: zero losing trades caps profit factor, no division fault", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 5, 1), 100),
			tp(d(2024, 5, 2), 50),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, analytics.ProfitFactorCap, res.Performance.ProfitFactor)
	})

	t.Run("Edge Case: only break-even trades leave profit factor at zero", func(t *testing.T) {
		trades := []analytics.TradePoint{tp(d(2024, 5, 1), 0)}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 0.0, res.Performance.ProfitFactor)
		assert.Equal(t, 0.0, res.Performance.WinRate)
	})

	t.Run("Success: fees reduce net but not gross P&L", func(t *testing.T) {
		trades := []analytics.TradePoint{
			{Date: d(2024, 5, 1), PnL: decimal.NewFromInt(100), Fee: decimal.NewFromInt(3)},
			{Date: d(2024, 5, 2), PnL: decimal.NewFromInt(-20), Fee: decimal.NewFromInt(2)},
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, "80", res.Performance.TotalPnL.String())
		assert.Equal(t, "75", res.Performance.NetPnL.String())
	})
}

func TestAggregate_DrawdownAndStreaks(t *testing.T) {
	t.Run("Success: peak-to-trough drawdown with earliest peak on ties", func(t *testing.T) {
		// Daily aggregates build the cumulative curve 100, 50, 150, 20.
		trades := []analytics.TradePoint{
			tp(d(2024, 6, 3), 100),
			tp(d(2024, 6, 4), -50),
			tp(d(2024, 6, 5), 100),
			tp(d(2024, 6, 6), -130),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, "130", res.Drawdown.MaxDrawdown.String())
		assert.InDelta(t, 86.67, res.Drawdown.MaxDrawdownPercent, 0.01)
	})

	t.Run("Success: trades on the same day aggregate before the pass", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 6, 3), 80),
			tp(d(2024, 6, 3), 20), // same day, one +100 aggregate
			tp(d(2024, 6, 4), -60),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 2, res.Meta.TradingDays)
		assert.Equal(t, "60", res.Drawdown.MaxDrawdown.String())
		assert.Equal(t, 1, res.Streaks.LongestWinStreak)
		assert.Equal(t, 1, res.Streaks.LongestLossStreak)
	})

	t.Run("Success: longest daily win and loss runs", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 6, 3), 10),
			tp(d(2024, 6, 4), 20),
			tp(d(2024, 6, 5), 5),
			tp(d(2024, 6, 6), -5),
			tp(d(2024, 6, 7), -10),
			tp(d(2024, 6, 10), 15),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 3, res.Streaks.LongestWinStreak)
		assert.Equal(t, 2, res.Streaks.LongestLossStreak)
	})

	t.Run("Edge Case: flat days reset both runs", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 6, 3), 10),
			tp(d(2024, 6, 4), 0),
			tp(d(2024, 6, 5), 10),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 1, res.Streaks.LongestWinStreak)
		assert.Equal(t, 0, res.Streaks.LongestLossStreak)
	})

	t.Run("Success: rising curve has no drawdown and zero Calmar", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 6, 3), 10),
			tp(d(2024, 6, 4), 20),
		}

		res := analytics.Aggregate(trades)

		assert.True(t, res.Drawdown.MaxDrawdown.IsZero())
		assert.Equal(t, 0.0, res.Drawdown.MaxDrawdownPercent)
		assert.Equal(t, 0.0, res.Risk.CalmarRatio)
	})
}

func TestAggregate_RiskRatios(t *testing.T) {
	t.Run("Success: Sharpe, Sortino and Calmar over daily returns", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 7, 1), 10),
			tp(d(2024, 7, 2), -5),
		}

		res := analytics.Aggregate(trades)

		// avg 2.5, stddev 7.5, downside dev sqrt(12.5), maxDD 5.
		assert.InDelta(t, 5.29, res.Risk.SharpeRatio, 0.01)
		assert.InDelta(t, 11.22, res.Risk.SortinoRatio, 0.01)
		assert.InDelta(t, 126.0, res.Risk.CalmarRatio, 0.01)
	})

	t.Run("Edge Case: zero volatility leaves Sharpe at zero", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 7, 1), 10),
			tp(d(2024, 7, 2), 10),
			tp(d(2024, 7, 3), 10),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 0.0, res.Risk.SharpeRatio)
		assert.Equal(t, 0.0, res.Risk.SortinoRatio)
	})

	t.Run("Edge Case: no losing days leaves Sortino at zero", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 7, 1), 10),
			tp(d(2024, 7, 2), 30),
		}

		res := analytics.Aggregate(trades)

		assert.Equal(t, 0.0, res.Risk.SortinoRatio)
		assert.Greater(t, res.Risk.SharpeRatio, 0.0)
	})

	t.Run("Property: pure function, identical reruns", func(t *testing.T) {
		trades := []analytics.TradePoint{
			tp(d(2024, 7, 1), 42),
			tp(d(2024, 7, 2), -17),
			tp(d(2024, 7, 3), 8),
		}

		first := analytics.Aggregate(trades)
		second := analytics.Aggregate(trades)

		assert.Equal(t, first, second)
	})
}
