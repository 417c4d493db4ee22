package analytics

import (
	"encoding/json"
	"math"
)

// Input configures one projection. Magnitudes are non-negative; WinRate is
// a fraction in [0, 1]. AvgWinR and AvgLossR are R-multiples of the amount
// risked per trade; RiskPerTrade and FeeAndFriction are fractions of equity.
type Input struct {
	StartingEquity float64 `json:"starting_equity"`
	TradesPerDay   int     `json:"trades_per_day"`
	WinRate        float64 `json:"win_rate"`
	AvgWinR        float64 `json:"avg_win_r"`
	AvgLossR       float64 `json:"avg_loss_r"`
	RiskPerTrade   float64 `json:"risk_per_trade"`
	FeeAndFriction float64 `json:"fee_and_friction"`
	Days           int     `json:"days"`
}

// NewInput builds and validates an Input.
func NewInput(startingEquity float64, tradesPerDay int, winRate, avgWinR, avgLossR, riskPerTrade, feeAndFriction float64, days int) (Input, error) {
	in := Input{
		StartingEquity: startingEquity,
		TradesPerDay:   tradesPerDay,
		WinRate:        winRate,
		AvgWinR:        avgWinR,
		AvgLossR:       avgLossR,
		RiskPerTrade:   riskPerTrade,
		FeeAndFriction: feeAndFriction,
		Days:           days,
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Validate reports the first precondition the input violates as a
// *ValidationError.
func (in Input) Validate() error {
	if in.TradesPerDay < 0 {
		return invalid("trades_per_day", "must be >= 0, got %d", in.TradesPerDay)
	}
	if in.Days < 0 {
		return invalid("days", "must be >= 0, got %d", in.Days)
	}
	if !finite(in.WinRate) || in.WinRate < 0 || in.WinRate > 1 {
		return invalid("win_rate", "must be within [0, 1], got %g", in.WinRate)
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"starting_equity", in.StartingEquity},
		{"avg_win_r", in.AvgWinR},
		{"avg_loss_r", in.AvgLossR},
		{"risk_per_trade", in.RiskPerTrade},
		{"fee_and_friction", in.FeeAndFriction},
	} {
		if !finite(f.v) {
			return invalid(f.name, "must be finite, got %g", f.v)
		}
		if f.v < 0 {
			return invalid(f.name, "must be >= 0, got %g", f.v)
		}
	}
	return nil
}

// PerTradeExpected is the expected fractional equity change of one trade:
// the risked fraction times the R expectancy, less the friction drag.
func (in Input) PerTradeExpected() float64 {
	edgeR := in.WinRate*in.AvgWinR - (1-in.WinRate)*in.AvgLossR
	return in.RiskPerTrade*edgeR - in.FeeAndFriction
}

// MaxPathDays bounds Result.Path. Longer horizons still get an
// EndingEquity but no per-day path.
const MaxPathDays = 3660

// Result is a deterministic projection. Path holds the equity at the end of
// each projected day when Days <= MaxPathDays.
//
// Values are not clamped and may be infinite when the edge compounds past
// float64 range; Overflow reports that case.
type Result struct {
	EndingEquity           float64   `json:"ending_equity"`
	DailyExpectedReturnPct float64   `json:"daily_expected_return_pct"`
	PerTradeExpected       float64   `json:"per_trade_expected"`
	TotalTrades            int       `json:"total_trades"`
	Path                   []float64 `json:"path,omitempty"`
	Overflow               bool      `json:"overflow,omitempty"`
}

// ReturnPct is the total projected return over the horizon, in percent.
func (r Result) ReturnPct(startingEquity float64) float64 {
	if startingEquity == 0 {
		return 0
	}
	return (r.EndingEquity/startingEquity - 1) * 100
}

// jsonFloat encodes non-finite values as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if !finite(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// MarshalJSON writes non-finite numbers as null so an overflowing
// projection still encodes.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		EndingEquity           jsonFloat   `json:"ending_equity"`
		DailyExpectedReturnPct jsonFloat   `json:"daily_expected_return_pct"`
		PerTradeExpected       jsonFloat   `json:"per_trade_expected"`
		TotalTrades            int         `json:"total_trades"`
		Path                   []jsonFloat `json:"path,omitempty"`
		Overflow               bool        `json:"overflow,omitempty"`
	}{
		EndingEquity:           jsonFloat(r.EndingEquity),
		DailyExpectedReturnPct: jsonFloat(r.DailyExpectedReturnPct),
		PerTradeExpected:       jsonFloat(r.PerTradeExpected),
		TotalTrades:            r.TotalTrades,
		Overflow:               r.Overflow,
	}
	if len(r.Path) > 0 {
		out.Path = make([]jsonFloat, len(r.Path))
		for i, v := range r.Path {
			out.Path[i] = jsonFloat(v)
		}
	}
	return json.Marshal(out)
}

// Project compounds the per-trade expectation over TradesPerDay*Days
// trades starting from StartingEquity. It samples no outcomes; the result
// depends only on in.
//
// The daily factor is (1+p)^TradesPerDay and EndingEquity is
// StartingEquity * factor^Days. Equity is not floored: a per-trade
// expectation at or below -1 is reported as the value it produces.
// TotalTrades saturates at math.MaxInt.
func Project(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		EndingEquity:     in.StartingEquity,
		PerTradeExpected: in.PerTradeExpected(),
	}
	if in.TradesPerDay == 0 || in.Days == 0 {
		return res, nil
	}

	daily := math.Pow(1+res.PerTradeExpected, float64(in.TradesPerDay))
	res.DailyExpectedReturnPct = (daily - 1) * 100

	if in.TradesPerDay > math.MaxInt/in.Days {
		res.TotalTrades = math.MaxInt
	} else {
		res.TotalTrades = in.TradesPerDay * in.Days
	}

	equityAt := func(day int) float64 {
		if in.StartingEquity == 0 {
			return 0
		}
		return in.StartingEquity * math.Pow(daily, float64(day))
	}

	res.EndingEquity = equityAt(in.Days)
	if in.Days <= MaxPathDays {
		res.Path = make([]float64, in.Days)
		for d := range res.Path {
			res.Path[d] = equityAt(d + 1)
		}
	}

	res.Overflow = !finite(res.EndingEquity) || !finite(res.DailyExpectedReturnPct)

	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
