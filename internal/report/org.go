package report

import (
	"io"
	"text/template"
	"time"
)

// Checkpoint is one row of the projected equity table.
type Checkpoint struct {
	Day    int
	Equity float64
}

// Checkpoints samples path down to at most max rows, always keeping the
// last day. Days are 1-based.
func Checkpoints(path []float64, max int) []Checkpoint {
	if len(path) == 0 || max <= 0 {
		return nil
	}

	step := 1
	if len(path) > max {
		step = (len(path) + max - 1) / max
	}

	var out []Checkpoint
	for i := step - 1; i < len(path); i += step {
		out = append(out, Checkpoint{Day: i + 1, Equity: path[i]})
	}
	if last := len(path); out[len(out)-1].Day != last {
		out = append(out, Checkpoint{Day: last, Equity: path[last-1]})
	}
	return out
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"money":  Money,
	"pct":    Pct,
	"checkpoints": func(path []float64) []Checkpoint {
		return Checkpoints(path, 12)
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("report").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an Org-mode document.
func WriteOrg(w io.Writer, r Report) error {
	return orgTemplate.Execute(w, r)
}

const OrgTemplate = `* PERFORMANCE: {{if .Account}}{{.Account}}{{else}}(account?){{end}}
:PROPERTIES:
:SOURCE:      {{if .Source}}{{.Source}}{{else}}(ledger?){{end}}
:TRADES:      {{.Stats.Trades}}
:WINS:        {{.Stats.WinCount}}
:LOSSES:      {{.Stats.LossCount}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Stats.WinRate)}}
:NET_PL:      {{money .Stats.TotalPnL}}
:MAX_DD:      {{money .Stats.MaxDrawdown}}
:PROFIT_FAC:  {{if ne .Stats.ProfitFactor 0.0}}{{printf "%.2f" .Stats.ProfitFactor}}{{else}}(profit-factor?){{end}}
:END_EQUITY:  {{money .Result.EndingEquity}}
:DAILY_PCT:   {{printf "%.2f" .Result.DailyExpectedReturnPct}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Realized Performance
- Net P/L:          *{{money .Stats.TotalPnL}} {{.Currency}}*
- Max Drawdown:     *{{money .Stats.MaxDrawdown}} {{.Currency}}*
- Win Rate:         *{{pct .Stats.WinRate}}*
- Avg Win / Loss:   *{{money .Stats.AvgWin}} / {{money .Stats.AvgLoss}}*

** Projection Parameters
| Parameter        | Value |
|------------------+-------|
| Start Equity     | {{money .Input.StartingEquity}} |
| Trades per Day   | {{.Input.TradesPerDay}} |
| Days             | {{.Input.Days}} |
| Win Rate         | {{pct .Input.WinRate}} |
| Avg Win (R)      | {{printf "%.2f" .Input.AvgWinR}} |
| Avg Loss (R)     | {{printf "%.2f" .Input.AvgLossR}} |
| Risk per Trade % | {{printf "%.2f" (mul100 .Input.RiskPerTrade)}} |
| Fee + Friction % | {{printf "%.3f" (mul100 .Input.FeeAndFriction)}} |

** Projected Equity
- Daily Return:     *{{printf "%.2f" .Result.DailyExpectedReturnPct}}%*
- Ending Equity:    *{{money .Result.EndingEquity}} {{.Currency}}*
{{- with checkpoints .Result.Path }}

| Day | Equity |
|-----+--------|
{{- range . }}
| {{.Day}} | {{money .Equity}} |
{{- end }}
{{- end }}

{{- if .Decision.Violations }}

** Risk Warnings
{{- range .Decision.Violations }}
- {{.Code}}: {{.Msg}}
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
