package analytics

import "github.com/rustyeddy/tradeperf/risk"

// Settings are the operator-controlled parts of a projection.
type Settings struct {
	StartingEquity float64 `json:"starting_equity" yaml:"starting_equity"`
	TradesPerDay   int     `json:"trades_per_day" yaml:"trades_per_day"`
	RiskPerTrade   float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	FeeAndFriction float64 `json:"fee_and_friction" yaml:"fee_and_friction"`
	Days           int     `json:"days" yaml:"days"`

	// RiskAmount is the account-currency amount risked per ledger trade.
	// When set, average win/loss P/L is converted to R by dividing by it.
	// Zero means the ledger P/L is already in R.
	RiskAmount float64 `json:"risk_amount,omitempty" yaml:"risk_amount,omitempty"`
}

// Overrides replace seeded values when non-nil.
type Overrides struct {
	WinRate        *float64 `json:"win_rate,omitempty" yaml:"win_rate,omitempty"`
	AvgWinR        *float64 `json:"avg_win_r,omitempty" yaml:"avg_win_r,omitempty"`
	AvgLossR       *float64 `json:"avg_loss_r,omitempty" yaml:"avg_loss_r,omitempty"`
	FeeAndFriction *float64 `json:"fee_and_friction,omitempty" yaml:"fee_and_friction,omitempty"`
}

// Seed builds a projection Input from realized statistics. A ledger with
// no decided trades seeds DefaultConfig.WinRate. The result is not
// validated; Project does that.
func Seed(stats RealizedStats, s Settings, o Overrides) Input {
	in := Input{
		StartingEquity: s.StartingEquity,
		TradesPerDay:   s.TradesPerDay,
		WinRate:        DefaultConfig.WinRate,
		AvgWinR:        stats.AvgWin,
		AvgLossR:       stats.AvgLoss,
		RiskPerTrade:   s.RiskPerTrade,
		FeeAndFriction: s.FeeAndFriction,
		Days:           s.Days,
	}

	if stats.Decided() > 0 {
		in.WinRate = stats.WinRate
	}

	if s.RiskAmount > 0 {
		if stats.WinCount > 0 {
			in.AvgWinR = risk.RMultiple(stats.AvgWin, s.RiskAmount)
		}
		if stats.LossCount > 0 {
			in.AvgLossR = risk.RMultiple(stats.AvgLoss, s.RiskAmount)
		}
	}

	if o.WinRate != nil {
		in.WinRate = *o.WinRate
	}
	if o.AvgWinR != nil {
		in.AvgWinR = *o.AvgWinR
	}
	if o.AvgLossR != nil {
		in.AvgLossR = *o.AvgLossR
	}
	if o.FeeAndFriction != nil {
		in.FeeAndFriction = *o.FeeAndFriction
	}

	return in
}
