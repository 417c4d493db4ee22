package report

import (
	"fmt"

	"github.com/rustyeddy/tradeperf/analytics"
)

// thinSample is the decided-trade count below which a win rate is noise.
const thinSample = 20

// Observe returns short remarks about a ledger and its projection.
func Observe(s analytics.RealizedStats, in analytics.Input, res analytics.Result) []string {
	var notes []string

	switch n := s.Decided(); {
	case n == 0:
		notes = append(notes, fmt.Sprintf("no decided trades; projection uses the default win rate %s", Pct(in.WinRate)))
	case n < thinSample:
		notes = append(notes, fmt.Sprintf("only %d decided trades; treat the win rate as a rough guess", n))
	}

	if s.Trades > 0 && s.TotalPnL < 0 {
		notes = append(notes, fmt.Sprintf("ledger is net negative (%s)", Money(s.TotalPnL)))
	}

	if in.StartingEquity > 0 && s.MaxDrawdown > 0 {
		share := s.MaxDrawdown / in.StartingEquity
		if share >= 0.10 {
			notes = append(notes, fmt.Sprintf("max drawdown is %s of starting equity", Pct(share)))
		}
	}

	switch {
	case res.PerTradeExpected < 0:
		notes = append(notes, "expected change per trade is negative; equity shrinks every day")
	case res.PerTradeExpected == 0 && in.TradesPerDay > 0 && in.Days > 0:
		notes = append(notes, "expected change per trade is zero; equity stays flat")
	}

	if res.Overflow {
		notes = append(notes, "projection overflows float64; shorten the horizon or trade less often")
	}

	if in.WinRate > 0 && in.AvgWinR > 0 {
		be := in.AvgLossR / (in.AvgWinR + in.AvgLossR)
		notes = append(notes, fmt.Sprintf("break-even win rate before friction is %s", Pct(be)))
	}

	return notes
}
