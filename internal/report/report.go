package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeperf/analytics"
	"github.com/rustyeddy/tradeperf/risk"
)

// Report is one refresh rendered for a person. Values stay raw until a
// Print or Write function formats them.
type Report struct {
	Created  time.Time
	Source   string
	Account  string
	Currency string

	Stats    analytics.RealizedStats
	Input    analytics.Input
	Result   analytics.Result
	Decision risk.Decision

	Notes []string
}

// Money renders an amount with two decimals, rounded half away from zero.
func Money(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 2, 64)
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}

// Pct renders a fraction as a percentage.
func Pct(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

const rule = "--------------------------------------------------"

// PrintStats writes the realized statistics block.
func PrintStats(w io.Writer, r Report) {
	s := r.Stats

	fmt.Fprintln(w, "Realized Performance")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", s.LossCount)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRatePct())
	fmt.Fprintf(w, "Net P/L:       %s %s\n", Money(s.TotalPnL), r.Currency)
	fmt.Fprintf(w, "Max Drawdown:  %s %s\n", Money(s.MaxDrawdown), r.Currency)
	fmt.Fprintf(w, "Avg Win:       %s\n", Money(s.AvgWin))
	fmt.Fprintf(w, "Avg Loss:      %s\n", Money(s.AvgLoss))
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}
	if s.Decided() > 0 {
		fmt.Fprintf(w, "Expectancy:    %s\n", Money(s.Expectancy))
	}
}

// PrintProjection writes the projection inputs and result.
func PrintProjection(w io.Writer, r Report) {
	in, res := r.Input, r.Result

	fmt.Fprintln(w, "Projection Inputs")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Start Equity:  %s %s\n", Money(in.StartingEquity), r.Currency)
	fmt.Fprintf(w, "Trades/Day:    %d\n", in.TradesPerDay)
	fmt.Fprintf(w, "Days:          %d\n", in.Days)
	fmt.Fprintf(w, "Win Rate:      %s\n", Pct(in.WinRate))
	fmt.Fprintf(w, "Avg Win (R):   %.2f\n", in.AvgWinR)
	fmt.Fprintf(w, "Avg Loss (R):  %.2f\n", in.AvgLossR)
	fmt.Fprintf(w, "Risk/Trade:    %s (%s %s)\n", Pct(in.RiskPerTrade),
		Money(risk.RiskAmount(in.StartingEquity, in.RiskPerTrade)), r.Currency)
	fmt.Fprintf(w, "Fee+Friction:  %.3f%%\n", in.FeeAndFriction*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Projection")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Per Trade:     %.4f%%\n", res.PerTradeExpected*100)
	fmt.Fprintf(w, "Daily Return:  %.2f%%\n", res.DailyExpectedReturnPct)
	fmt.Fprintf(w, "End Equity:    %s %s\n", Money(res.EndingEquity), r.Currency)
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", res.ReturnPct(in.StartingEquity))
	if res.Overflow {
		fmt.Fprintln(w, "Overflow:      projection exceeds float64 range")
	}

	if len(r.Decision.Violations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Risk Warnings")
		fmt.Fprintln(w, rule)
		for _, v := range r.Decision.Violations {
			fmt.Fprintf(w, "- %s: %s\n", v.Code, v.Msg)
		}
	}
}

// Print writes the full text report.
func Print(w io.Writer, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Performance & Projection")
	fmt.Fprintln(w, "==================================================")
	if r.Account != "" {
		fmt.Fprintf(w, "Account:       %s\n", r.Account)
	}
	if r.Source != "" {
		fmt.Fprintf(w, "Ledger:        %s\n", r.Source)
	}
	if !r.Created.IsZero() {
		fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	}
	fmt.Fprintln(w)

	PrintStats(w, r)
	fmt.Fprintln(w)
	PrintProjection(w, r)

	if len(r.Notes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Observations")
		fmt.Fprintln(w, rule)
		for _, note := range r.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}
	fmt.Fprintln(w)
}
