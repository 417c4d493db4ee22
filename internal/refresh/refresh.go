package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeperf/analytics"
	"github.com/rustyeddy/tradeperf/journal"
	"github.com/rustyeddy/tradeperf/risk"
)

// Snapshot is the outcome of one pass over the ledger.
type Snapshot struct {
	At       time.Time               `json:"at"`
	Stats    analytics.RealizedStats `json:"stats"`
	Input    analytics.Input         `json:"input"`
	Result   analytics.Result        `json:"result"`
	Decision risk.Decision           `json:"decision"`
}

// Pipeline loads a ledger, summarizes it and projects it forward.
type Pipeline struct {
	Ledger    journal.Ledger
	Settings  analytics.Settings
	Overrides analytics.Overrides
	Policy    risk.Policy
	Log       zerolog.Logger

	// Now stamps snapshots; nil means time.Now.
	Now func() time.Time
}

// Refresh runs a pipeline with the default risk policy and no logging.
func Refresh(ctx context.Context, ledger journal.Ledger, s analytics.Settings, o analytics.Overrides) (Snapshot, error) {
	p := Pipeline{
		Ledger:    ledger,
		Settings:  s,
		Overrides: o,
		Policy:    risk.DefaultPolicy(),
		Log:       zerolog.Nop(),
	}
	return p.Run(ctx)
}

// WithOverrides returns a copy of p using o in place of its overrides.
func (p Pipeline) WithOverrides(o analytics.Overrides) Pipeline {
	p.Overrides = o
	return p
}

// Run executes load, sort, analyze, seed, project and risk evaluation.
//
// When projection fails the returned Snapshot still carries Stats and
// Input so callers can show what was seeded.
func (p Pipeline) Run(ctx context.Context) (Snapshot, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	snap := Snapshot{At: now().UTC()}

	if p.Ledger == nil {
		return snap, fmt.Errorf("refresh: no ledger")
	}

	trades, err := p.Ledger.LoadTrades(ctx)
	if err != nil {
		return snap, fmt.Errorf("load trades: %w", err)
	}
	if !journal.Sorted(trades) {
		p.Log.Debug().Int("trades", len(trades)).Msg("ledger out of time order; sorting")
		journal.SortByTime(trades)
	}

	snap.Stats = analytics.Analyze(trades)
	snap.Input = analytics.Seed(snap.Stats, p.Settings, p.Overrides)

	snap.Result, err = analytics.Project(snap.Input)
	if err != nil {
		p.Log.Warn().Err(err).Msg("projection rejected")
		return snap, fmt.Errorf("project: %w", err)
	}

	snap.Decision = risk.Evaluate(p.Policy, risk.Plan{
		WinRate:        snap.Input.WinRate,
		AvgWinR:        snap.Input.AvgWinR,
		AvgLossR:       snap.Input.AvgLossR,
		RiskPerTrade:   snap.Input.RiskPerTrade,
		FeeAndFriction: snap.Input.FeeAndFriction,
		DecidedTrades:  snap.Stats.Decided(),
	})

	p.Log.Info().
		Int("trades", snap.Stats.Trades).
		Float64("win_rate", snap.Stats.WinRate).
		Float64("total_pnl", snap.Stats.TotalPnL).
		Float64("max_drawdown", snap.Stats.MaxDrawdown).
		Float64("ending_equity", snap.Result.EndingEquity).
		Float64("daily_pct", snap.Result.DailyExpectedReturnPct).
		Msg("refreshed")

	if snap.Result.Overflow {
		p.Log.Warn().Int("days", snap.Input.Days).Msg("projection overflows float64")
	}

	for _, v := range snap.Decision.Violations {
		p.Log.Warn().Str("code", v.Code).Msg(v.Msg)
	}

	return snap, nil
}
