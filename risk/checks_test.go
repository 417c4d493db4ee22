package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func goodPlan() Plan {
	return Plan{
		WinRate:        0.55,
		AvgWinR:        1.5,
		AvgLossR:       1.0,
		RiskPerTrade:   0.01,
		FeeAndFriction: 0.001,
		DecidedTrades:  100,
	}
}

func TestEvaluateAllowed(t *testing.T) {
	t.Parallel()

	d := Evaluate(DefaultPolicy(), goodPlan())
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.InDelta(t, 0.375, d.EdgeR, 1e-12)
	assert.InDelta(t, 0.011, d.WorstTradeFraction, 1e-12)
}

func TestEvaluateViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Plan)
		code   string
	}{
		{"risk too high", func(p *Plan) { p.RiskPerTrade = 0.05 }, "RISK_TOO_HIGH"},
		{"friction too high", func(p *Plan) { p.FeeAndFriction = 0.01 }, "FRICTION_TOO_HIGH"},
		{"negative edge", func(p *Plan) { p.WinRate = 0.2 }, "NEGATIVE_EDGE"},
		{"friction eats edge", func(p *Plan) { p.WinRate = 0.4; p.AvgWinR = 1.5 }, "NEGATIVE_EDGE"},
		{"ruin per trade", func(p *Plan) { p.RiskPerTrade = 0.6; p.AvgLossR = 2 }, "RUIN_PER_TRADE"},
		{"thin sample", func(p *Plan) { p.DecidedTrades = 3 }, "THIN_SAMPLE"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan := goodPlan()
			tt.modify(&plan)

			d := Evaluate(DefaultPolicy(), plan)
			assert.False(t, d.Allowed)
			assert.True(t, d.Has(tt.code), "violations: %+v", d.Violations)
		})
	}
}

func TestEvaluateZeroPolicySkipsLimits(t *testing.T) {
	t.Parallel()

	plan := goodPlan()
	plan.RiskPerTrade = 0.2
	plan.FeeAndFriction = 0.002

	d := Evaluate(Policy{}, plan)
	assert.False(t, d.Has("RISK_TOO_HIGH"))
	assert.False(t, d.Has("FRICTION_TOO_HIGH"))
}
