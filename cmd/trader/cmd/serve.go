package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/internal/api"
	"github.com/rustyeddy/tradeperf/internal/refresh"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stats and projections over HTTP",
	Long: `Start an HTTP server exposing the ledger statistics and projection.

Endpoints:
  GET /health
  GET /api/stats
  GET /api/projection?win_rate=&avg_win_r=&avg_loss_r=&risk=&fee=&days=&trades_per_day=&equity=
  GET /api/report?format=text|org

Plain requests are answered from the latest scheduled refresh (see
watch.schedule); requests with overrides are computed on demand.

Examples:
  trader serve
  trader serve --addr :9000 --no-watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr    string
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "compute every request instead of refreshing on a schedule")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := currentCfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	src, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	p := newPipeline(src)

	var snaps api.Snapshots
	if !serveNoWatch && currentCfg.Watch.Schedule != "" {
		w, err := refresh.NewWatcher(p, currentCfg.Watch.Schedule)
		if err != nil {
			return err
		}
		w.Start()
		defer w.Stop()
		snaps = w
	}

	h := api.NewHandler(p, snaps, currentCfg.Account.ID, currentCfg.Account.Currency, logger)
	srv := api.New(addr, api.NewRouter(h, logger), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
