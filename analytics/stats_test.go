package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeperf/journal"
)

var t0 = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

// ledger builds trades one minute apart. NaN stands for "no P/L".
func ledger(pls ...float64) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(pls))
	for i, pl := range pls {
		out[i] = journal.TradeRecord{
			TradeID:    string(rune('A' + i)),
			Instrument: "EUR_USD",
			AtUTC:      t0.Add(time.Duration(i) * time.Minute),
		}
		if !math.IsNaN(pl) {
			out[i].RealizedPL = journal.PLOf(pl)
		}
	}
	return out
}

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	for _, trades := range [][]journal.TradeRecord{nil, {}} {
		s := Analyze(trades)

		assert.Equal(t, 0, s.Trades)
		assert.Equal(t, 0.0, s.TotalPnL)
		assert.Equal(t, 0, s.WinCount)
		assert.Equal(t, 0, s.LossCount)
		assert.Equal(t, 0.0, s.WinRate)
		assert.Equal(t, 0.0, s.MaxDrawdown)
		assert.Equal(t, 1.1, s.AvgWin)
		assert.Equal(t, 1.0, s.AvgLoss)
		assert.Equal(t, 0.0, s.ProfitFactor)
	}
}

func TestAnalyzeSingleWin(t *testing.T) {
	t.Parallel()

	s := Analyze(ledger(50))

	assert.Equal(t, 1, s.Trades)
	assert.Equal(t, 50.0, s.TotalPnL)
	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 0, s.LossCount)
	assert.Equal(t, 1.0, s.WinRate)
	assert.Equal(t, 100.0, s.WinRatePct())
	assert.Equal(t, 0.0, s.MaxDrawdown)
	assert.Equal(t, 50.0, s.AvgWin)
	assert.Equal(t, DefaultConfig.AvgLossR, s.AvgLoss)
}

func TestAnalyzeDrawdownAfterNewHigh(t *testing.T) {
	t.Parallel()

	// curve [10, 20, 5, 15]
	s := Analyze(ledger(10, 10, -15, 10))

	assert.Equal(t, 15.0, s.MaxDrawdown)
	assert.Equal(t, 15.0, s.TotalPnL)
}

func TestAnalyzeLossesOnly(t *testing.T) {
	t.Parallel()

	s := Analyze(ledger(-10, -30))

	assert.Equal(t, 0, s.WinCount)
	assert.Equal(t, 2, s.LossCount)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, DefaultConfig.AvgWinR, s.AvgWin)
	assert.NotZero(t, s.AvgWin)
	assert.Equal(t, 20.0, s.AvgLoss)
	assert.Equal(t, 30.0, s.MaxDrawdown)
	assert.Equal(t, 0.0, s.ProfitFactor)

	res, err := Project(Seed(s, DefaultConfig.Settings(), Overrides{}))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.EndingEquity))
	assert.False(t, math.IsInf(res.EndingEquity, 0))
	assert.False(t, math.IsNaN(res.DailyExpectedReturnPct))
}

func TestAnalyzeNeutralTrades(t *testing.T) {
	t.Parallel()

	// zero and missing P/L count as trades but neither wins nor losses
	s := Analyze(ledger(20, 0, math.NaN(), -10))

	assert.Equal(t, 4, s.Trades)
	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.Equal(t, 2, s.Decided())
	assert.Equal(t, 0.5, s.WinRate)
	assert.Equal(t, 10.0, s.TotalPnL)
	assert.Equal(t, 10.0, s.MaxDrawdown)
}

func TestAnalyzeOnlyNeutral(t *testing.T) {
	t.Parallel()

	s := Analyze(ledger(math.NaN(), 0))

	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, DefaultConfig.AvgWinR, s.AvgWin)
	assert.Equal(t, DefaultConfig.AvgLossR, s.AvgLoss)
	assert.Equal(t, 0.0, s.Expectancy)
}

func TestAnalyzeAggregates(t *testing.T) {
	t.Parallel()

	s := Analyze(ledger(30, -10, 50, -20, 0))

	assert.Equal(t, 2, s.WinCount)
	assert.Equal(t, 2, s.LossCount)
	assert.Equal(t, 80.0, s.GrossProfit)
	assert.Equal(t, 30.0, s.GrossLoss)
	assert.Equal(t, 40.0, s.AvgWin)
	assert.Equal(t, 15.0, s.AvgLoss)
	assert.InDelta(t, 80.0/30.0, s.ProfitFactor, 1e-12)
	assert.Equal(t, 12.5, s.Expectancy)
	assert.Equal(t, 50.0, s.TotalPnL)
}

func TestAnalyzeOrderMatters(t *testing.T) {
	t.Parallel()

	up := Analyze(ledger(-5, 10))
	down := Analyze(ledger(10, -5))

	assert.Equal(t, up.TotalPnL, down.TotalPnL)
	assert.Equal(t, 0.0, up.MaxDrawdown)
	assert.Equal(t, 5.0, down.MaxDrawdown)
}

func TestAnalyzeDoesNotReorder(t *testing.T) {
	t.Parallel()

	trades := ledger(10, -5)
	trades[0].AtUTC, trades[1].AtUTC = trades[1].AtUTC, trades[0].AtUTC

	s := Analyze(trades)
	assert.Equal(t, "A", trades[0].TradeID)
	assert.Equal(t, 5.0, s.MaxDrawdown)
}
