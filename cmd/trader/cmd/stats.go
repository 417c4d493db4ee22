package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/analytics"
	"github.com/rustyeddy/tradeperf/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize realized performance of the ledger",
	Long: `Load every trade in the ledger, order it by close time and report
net P/L, win rate, maximum drawdown and average win and loss.

Examples:
  trader stats
  trader stats --ledger trades.csv
  trader stats --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsFormat string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "output format: text or json")
}

func runStats(cmd *cobra.Command, args []string) error {
	src, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer src.Close()

	snap, err := newPipeline(src).Run(cmd.Context())
	// A rejected projection does not spoil the realized numbers.
	if err != nil && !errors.Is(err, analytics.ErrInvalidInput) {
		return err
	}

	out := cmd.OutOrStdout()
	switch statsFormat {
	case "text":
		report.PrintStats(out, report.Report{Currency: currentCfg.Account.Currency, Stats: snap.Stats})
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			analytics.RealizedStats
			WinRatePct float64 `json:"win_rate_pct"`
		}{snap.Stats, snap.Stats.WinRatePct()})
	default:
		return fmt.Errorf("unknown format %q (want text or json)", statsFormat)
	}
	return nil
}
