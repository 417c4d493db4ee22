package analytics

import (
	"math"

	"github.com/rustyeddy/tradeperf/journal"
)

// RealizedStats summarizes a closed-trade ledger. WinRate is a fraction in
// [0, 1]; use WinRatePct for display.
type RealizedStats struct {
	Trades    int     `json:"trades"`
	TotalPnL  float64 `json:"total_pnl"`
	WinCount  int     `json:"win_count"`
	LossCount int     `json:"loss_count"`
	WinRate   float64 `json:"win_rate"`

	MaxDrawdown float64 `json:"max_drawdown"`

	// Mean winning P/L and mean absolute losing P/L. Never zero: empty
	// sample sets fall back to DefaultConfig.AvgWinR / AvgLossR.
	AvgWin  float64 `json:"avg_win"`
	AvgLoss float64 `json:"avg_loss"`

	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
}

// Decided is the number of trades counted as a win or a loss.
func (s RealizedStats) Decided() int {
	return s.WinCount + s.LossCount
}

// WinRatePct returns the win rate on a 0-100 scale.
func (s RealizedStats) WinRatePct() float64 {
	return s.WinRate * 100
}

// Analyze reduces trades to realized statistics.
//
// trades must be in ascending AtUTC order; Analyze does not sort them
// (see journal.SortByTime). Drawdown depends on that order.
func Analyze(trades []journal.TradeRecord) RealizedStats {
	stats := RealizedStats{
		Trades:  len(trades),
		AvgWin:  DefaultConfig.AvgWinR,
		AvgLoss: DefaultConfig.AvgLossR,
	}
	if len(trades) == 0 {
		return stats
	}

	for _, t := range trades {
		pl := t.PL()
		stats.TotalPnL += pl

		switch {
		case pl > 0:
			stats.WinCount++
			stats.GrossProfit += pl
		case pl < 0:
			stats.LossCount++
			stats.GrossLoss += math.Abs(pl)
		}
	}

	if n := stats.Decided(); n > 0 {
		stats.WinRate = float64(stats.WinCount) / float64(n)
		stats.Expectancy = (stats.GrossProfit - stats.GrossLoss) / float64(n)
	}
	if stats.WinCount > 0 {
		stats.AvgWin = stats.GrossProfit / float64(stats.WinCount)
	}
	if stats.LossCount > 0 {
		stats.AvgLoss = stats.GrossLoss / float64(stats.LossCount)
	}
	if stats.GrossLoss > 0 {
		stats.ProfitFactor = stats.GrossProfit / stats.GrossLoss
	}

	stats.MaxDrawdown = MaxDrawdown(BuildEquityCurve(trades))

	return stats
}
