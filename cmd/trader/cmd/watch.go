package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/internal/refresh"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the projection on a schedule",
	Long: `Refresh the ledger statistics and projection on a cron schedule and
print a report after every successful refresh.

The schedule is a standard cron expression or a descriptor such as
"@every 5m" or "@hourly".

Examples:
  trader watch
  trader watch --schedule "@every 30s"
  trader watch --count 1 --format json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchSchedule string
	watchCount    int
	watchFormat   string
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron schedule (default from config)")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "stop after this many reports; 0 runs until interrupted")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "text", "output format: text, org or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedule := currentCfg.Watch.Schedule
	if watchSchedule != "" {
		schedule = watchSchedule
	}
	if schedule == "" {
		return fmt.Errorf("no schedule: set watch.schedule or --schedule")
	}

	src, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := refresh.NewWatcher(newPipeline(src), schedule)
	if err != nil {
		return err
	}

	updates, cancel := w.Subscribe(4)
	defer cancel()

	w.Start()
	defer w.Stop()

	for n := 0; watchCount == 0 || n < watchCount; n++ {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			var buf bytes.Buffer
			if err := renderSnapshot(&buf, watchFormat, snap); err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return err
			}
		}
	}
	return nil
}
