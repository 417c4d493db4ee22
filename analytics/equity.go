package analytics

import "github.com/rustyeddy/tradeperf/journal"

// EquityCurve is the cumulative realized P/L after each trade, in ledger
// order. Trades without a P/L contribute 0.
type EquityCurve []float64

// BuildEquityCurve returns a new curve with one point per trade.
func BuildEquityCurve(trades []journal.TradeRecord) EquityCurve {
	curve := make(EquityCurve, len(trades))
	var sum float64
	for i, t := range trades {
		sum += t.PL()
		curve[i] = sum
	}
	return curve
}

// Last returns the final point of the curve, or 0 when empty.
func (c EquityCurve) Last() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// MaxDrawdown returns the largest decline from a peak to a later trough.
//
// The scan starts with peak and trough at the first point. A strictly new
// high resets both; a lower value moves the trough. The recorded value is
// the largest peak-trough seen, so a recovery never reduces it.
func MaxDrawdown(c EquityCurve) float64 {
	if len(c) == 0 {
		return 0
	}

	peak := c[0]
	trough := c[0]
	var maxDD float64

	for _, v := range c[1:] {
		if v > peak {
			peak = v
			trough = v
			continue
		}
		if v < trough {
			trough = v
		}
		if dd := peak - trough; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
