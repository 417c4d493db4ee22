package analytics

// Defaults holds the fallback values used when a ledger cannot supply a
// statistic, plus the operator settings used when nothing is configured.
type Defaults struct {
	// Fallbacks for empty win / loss sample sets, in R.
	AvgWinR  float64
	AvgLossR float64

	// Win rate used when the ledger has no decided trades.
	WinRate float64

	// Per-trade fee and slippage drag, as a fraction of equity.
	FeeAndFriction float64

	StartingEquity float64
	TradesPerDay   int
	RiskPerTrade   float64
	Days           int
}

// DefaultConfig is the single source of the engine's default numbers.
var DefaultConfig = Defaults{
	AvgWinR:        1.1,
	AvgLossR:       1.0,
	WinRate:        0.52,
	FeeAndFriction: 0.001,
	StartingEquity: 10000,
	TradesPerDay:   10,
	RiskPerTrade:   0.01,
	Days:           30,
}

// Settings returns the operator settings half of d.
func (d Defaults) Settings() Settings {
	return Settings{
		StartingEquity: d.StartingEquity,
		TradesPerDay:   d.TradesPerDay,
		RiskPerTrade:   d.RiskPerTrade,
		FeeAndFriction: d.FeeAndFriction,
		Days:           d.Days,
	}
}
