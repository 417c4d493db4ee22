package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/config"
	"github.com/rustyeddy/tradeperf/internal/logging"
	"github.com/rustyeddy/tradeperf/internal/refresh"
	"github.com/rustyeddy/tradeperf/journal"
)

var rootCmd = &cobra.Command{
	Use:   "trader",
	Short: "Trading performance analytics and forward projection",
	Long: `Trader reads a ledger of closed trades, summarizes how it has performed,
and projects account equity forward from those results.

It provides tools for:
  - Realized statistics: P/L, win rate, drawdown, average win and loss
  - Deterministic compounding projections seeded from the ledger
  - Risk warnings for plans that assume too much
  - Querying and importing trade journals (SQLite, CSV, Postgres)
  - Serving stats and projections over HTTP`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	ledgerType string
	ledgerPath string
	currentCfg *config.Config
	logger     = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&ledgerType, "ledger-type", "", "ledger type: sqlite, csv or postgres")
	pf.StringVarP(&ledgerPath, "ledger", "l", "", "ledger file path, or DSN for postgres")
}

// loadConfig resolves configuration in order: defaults, config file,
// environment, flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("ledger-type") {
		cfg.Journal.Type = ledgerType
	}
	if flags.Changed("ledger") {
		cfg.Journal.Path = ledgerPath
		if !flags.Changed("ledger-type") {
			cfg.Journal.Type = guessLedgerType(ledgerPath, cfg.Journal.Type)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	currentCfg = cfg
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

// guessLedgerType picks csv or postgres from the shape of path and keeps
// fallback otherwise.
func guessLedgerType(path, fallback string) string {
	switch {
	case hasSuffixFold(path, ".csv"):
		return "csv"
	case hasPrefixFold(path, "postgres://"), hasPrefixFold(path, "postgresql://"):
		return "postgres"
	case hasSuffixFold(path, ".sqlite"), hasSuffixFold(path, ".db"):
		return "sqlite"
	}
	return fallback
}

// openLedger opens the configured ledger for reading.
func openLedger(ctx context.Context) (journal.Source, error) {
	src, err := journal.Open(ctx, currentCfg.Journal.Type, currentCfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return src, nil
}

// newPipeline builds the refresh pipeline from the loaded config.
func newPipeline(ledger journal.Ledger) refresh.Pipeline {
	return refresh.Pipeline{
		Ledger:    ledger,
		Settings:  currentCfg.Settings(),
		Overrides: currentCfg.Overrides(),
		Policy:    currentCfg.Risk,
		Log:       logger,
	}
}
