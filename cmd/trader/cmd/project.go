package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/internal/refresh"
	"github.com/rustyeddy/tradeperf/internal/report"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project equity forward from ledger performance",
	Long: `Seed a projection from the ledger's realized statistics and compound
the expected per-trade return over the configured horizon.

Any seeded value can be replaced from the command line. Risk warnings are
reported but never change the numbers.

Examples:
  trader project
  trader project --days 90 --trades-per-day 5
  trader project --win-rate 0.55 --avg-win-r 1.5 --avg-loss-r 1
  trader project --format org --output projection.org`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

var (
	projWinRate      float64
	projAvgWinR      float64
	projAvgLossR     float64
	projFee          float64
	projRisk         float64
	projEquity       float64
	projDays         int
	projTradesPerDay int
	projFormat       string
	projOutput       string
)

func init() {
	rootCmd.AddCommand(projectCmd)

	f := projectCmd.Flags()
	f.Float64Var(&projWinRate, "win-rate", 0, "win rate override, a fraction in [0, 1]")
	f.Float64Var(&projAvgWinR, "avg-win-r", 0, "average win override, in R")
	f.Float64Var(&projAvgLossR, "avg-loss-r", 0, "average loss override, in R (positive)")
	f.Float64Var(&projFee, "fee", 0, "fee and friction per trade, fraction of equity")
	f.Float64Var(&projRisk, "risk", 0, "risk per trade, fraction of equity")
	f.Float64Var(&projEquity, "equity", 0, "starting equity")
	f.IntVar(&projDays, "days", 0, "projection horizon in days")
	f.IntVar(&projTradesPerDay, "trades-per-day", 0, "trades per day")
	f.StringVarP(&projFormat, "format", "f", "text", "output format: text, org or json")
	f.StringVarP(&projOutput, "output", "o", "", "write to file instead of stdout")
}

// projectPipeline applies the command-line overrides to the configured
// pipeline.
func projectPipeline(cmd *cobra.Command, p refresh.Pipeline) refresh.Pipeline {
	flags := cmd.Flags()
	o := p.Overrides

	if flags.Changed("win-rate") {
		v := projWinRate
		o.WinRate = &v
	}
	if flags.Changed("avg-win-r") {
		v := projAvgWinR
		o.AvgWinR = &v
	}
	if flags.Changed("avg-loss-r") {
		v := projAvgLossR
		o.AvgLossR = &v
	}
	if flags.Changed("fee") {
		v := projFee
		o.FeeAndFriction = &v
	}
	if flags.Changed("risk") {
		p.Settings.RiskPerTrade = projRisk
	}
	if flags.Changed("equity") {
		p.Settings.StartingEquity = projEquity
	}
	if flags.Changed("days") {
		p.Settings.Days = projDays
	}
	if flags.Changed("trades-per-day") {
		p.Settings.TradesPerDay = projTradesPerDay
	}

	return p.WithOverrides(o)
}

func runProject(cmd *cobra.Command, args []string) error {
	src, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer src.Close()

	snap, err := projectPipeline(cmd, newPipeline(src)).Run(cmd.Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderSnapshot(&buf, projFormat, snap); err != nil {
		return err
	}

	if projOutput != "" {
		if err := os.WriteFile(projOutput, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", projOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote projection: %s\n", projOutput)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// renderSnapshot writes snap as a text report, an Org document or JSON.
func renderSnapshot(buf *bytes.Buffer, format string, snap refresh.Snapshot) error {
	rep := report.Report{
		Created:  snap.At,
		Source:   ledgerLabel(),
		Account:  currentCfg.Account.ID,
		Currency: currentCfg.Account.Currency,
		Stats:    snap.Stats,
		Input:    snap.Input,
		Result:   snap.Result,
		Decision: snap.Decision,
		Notes:    report.Observe(snap.Stats, snap.Input, snap.Result),
	}

	switch format {
	case "text":
		report.Print(buf, rep)
	case "org":
		return report.WriteOrg(buf, rep)
	case "json":
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q (want text, org or json)", format)
	}
	return nil
}

// ledgerLabel names the ledger without leaking a postgres DSN.
func ledgerLabel() string {
	if currentCfg.Journal.Type == "postgres" {
		return "postgres"
	}
	return currentCfg.Journal.Path
}
