package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		equity   float64
		fraction float64
		want     float64
	}{
		{"one percent", 10000, 0.01, 100},
		{"half percent", 2000, 0.005, 10},
		{"zero equity", 0, 0.01, 0},
		{"negative equity", -50, 0.01, 0},
		{"zero fraction", 10000, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RiskAmount(tt.equity, tt.fraction), 1e-12)
		})
	}
}

func TestRMultiple(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RMultiple(200, 100), 1e-12)
	assert.InDelta(t, -0.5, RMultiple(-50, 100), 1e-12)
	assert.Equal(t, 0.0, RMultiple(200, 0))
	assert.Equal(t, 0.0, RMultiple(200, -1))
}

func TestEdgeR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.052, EdgeR(0.52, 1.1, 1.0), 1e-12)
	assert.InDelta(t, -1.0, EdgeR(0, 1.1, 1.0), 1e-12)
	assert.InDelta(t, 1.1, EdgeR(1, 1.1, 1.0), 1e-12)
}

func TestWorstTradeFraction(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.011, WorstTradeFraction(0.01, 1.0, 0.001), 1e-12)
	assert.InDelta(t, 1.0, WorstTradeFraction(0.5, 2.0, 0), 1e-12)
}
