package risk

import "fmt"

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Decision lists the ways a plan breaks a policy. Allowed is false when
// any violation was recorded.
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	EdgeR              float64 `json:"edge_r"`
	WorstTradeFraction float64 `json:"worst_trade_fraction"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether a violation with code was recorded.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Evaluate checks a plan against p. It only reports; callers decide what
// to do with a failing plan.
func Evaluate(p Policy, plan Plan) Decision {
	d := Decision{Allowed: true}

	d.EdgeR = EdgeR(plan.WinRate, plan.AvgWinR, plan.AvgLossR)
	d.WorstTradeFraction = WorstTradeFraction(plan.RiskPerTrade, plan.AvgLossR, plan.FeeAndFriction)

	if d.WorstTradeFraction >= 1 {
		d.add("RUIN_PER_TRADE",
			fmt.Sprintf("a single loss costs %.2f%% of equity", 100*d.WorstTradeFraction))
	}
	if p.MaxRiskPerTrade > 0 && plan.RiskPerTrade > p.MaxRiskPerTrade {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("risk per trade %.2f%% exceeds max %.2f%%",
				100*plan.RiskPerTrade, 100*p.MaxRiskPerTrade))
	}
	if p.MaxFeeAndFriction > 0 && plan.FeeAndFriction > p.MaxFeeAndFriction {
		d.add("FRICTION_TOO_HIGH",
			fmt.Sprintf("friction %.3f%% exceeds max %.3f%%",
				100*plan.FeeAndFriction, 100*p.MaxFeeAndFriction))
	}

	net := plan.RiskPerTrade*d.EdgeR - plan.FeeAndFriction
	if net < 0 {
		d.add("NEGATIVE_EDGE",
			fmt.Sprintf("expected change per trade %.4f%% is negative", 100*net))
	}

	if plan.DecidedTrades < p.MinDecidedTrades {
		d.add("THIN_SAMPLE",
			fmt.Sprintf("%d decided trades < minimum %d", plan.DecidedTrades, p.MinDecidedTrades))
	}

	return d
}
