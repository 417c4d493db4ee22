package risk

// Policy bounds what a projection plan may assume before it is flagged.
type Policy struct {
	MaxRiskPerTrade   float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`     // 0.02
	MaxFeeAndFriction float64 `json:"max_fee_and_friction" yaml:"max_fee_and_friction"` // 0.005
	MinDecidedTrades  int     `json:"min_decided_trades" yaml:"min_decided_trades"`     // 30
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPerTrade:   0.02,
		MaxFeeAndFriction: 0.005,
		MinDecidedTrades:  30,
	}
}

// Plan is what a projection is about to assume.
type Plan struct {
	WinRate        float64
	AvgWinR        float64
	AvgLossR       float64
	RiskPerTrade   float64
	FeeAndFriction float64

	// DecidedTrades is how many ledger wins + losses back the plan.
	DecidedTrades int
}
