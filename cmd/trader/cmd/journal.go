package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeperf/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query and maintain the trade journal",
	Long: `Query, add to and move trade journal records.

Subcommands:
  trade   - Get details of a specific trade by ID
  today   - List trades closed today
  day     - List trades closed on a specific day
  add     - Record one closed trade
  import  - Copy trades from a CSV file into the journal
  export  - Write every journal trade to a CSV file

Examples:
  trader journal trade <trade-id>
  trader journal today
  trader journal day 2024-01-15
  trader journal add --instrument EUR_USD --pl 42.5
  trader journal import trades.csv
  trader journal export backup.csv`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one closed trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalImportCmd = &cobra.Command{
	Use:   "import <trades.csv>",
	Short: "Copy trades from a CSV file into the journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalImport,
}

var journalExportCmd = &cobra.Command{
	Use:   "export <trades.csv>",
	Short: "Write every journal trade to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalExport,
}

var (
	addID         string
	addInstrument string
	addUnits      float64
	addEntry      float64
	addExit       float64
	addPL         float64
	addAt         string
	addReason     string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalImportCmd)
	journalCmd.AddCommand(journalExportCmd)

	f := journalAddCmd.Flags()
	f.StringVar(&addID, "id", "", "trade ID (generated when empty)")
	f.StringVar(&addInstrument, "instrument", "", "instrument, e.g. EUR_USD")
	f.Float64Var(&addUnits, "units", 0, "units traded; negative for short")
	f.Float64Var(&addEntry, "entry", 0, "entry price")
	f.Float64Var(&addExit, "exit", 0, "exit price")
	f.Float64Var(&addPL, "pl", 0, "realized P/L in account currency")
	f.StringVar(&addAt, "at", "", "close time, RFC3339 (default now)")
	f.StringVar(&addReason, "reason", "", "close reason")
	_ = journalAddCmd.MarkFlagRequired("instrument")
}

// openSQLite opens the configured journal for the query commands, which
// only SQLite supports.
func openSQLite() (*journal.SQLite, error) {
	if currentCfg.Journal.Type != "sqlite" {
		return nil, fmt.Errorf("journal queries need a sqlite journal, have %s", currentCfg.Journal.Type)
	}
	j, err := journal.OpenSQLite(currentCfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	j, err := openSQLite()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	at := time.Now().UTC()
	if addAt != "" {
		t, err := time.Parse(time.RFC3339, addAt)
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		at = t.UTC()
	}

	rec := journal.TradeRecord{
		TradeID:    addID,
		Instrument: addInstrument,
		Units:      addUnits,
		EntryPrice: addEntry,
		ExitPrice:  addExit,
		AtUTC:      at,
		Reason:     addReason,
	}
	if cmd.Flags().Changed("pl") {
		rec.RealizedPL = journal.PLOf(addPL)
	}

	j, err := journal.OpenJournal(cmd.Context(), currentCfg.Journal.Type, currentCfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	logger.Info().Str("instrument", rec.Instrument).Time("at", at).Msg("trade recorded")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s trade at %s\n", rec.Instrument, at.Format(time.RFC3339))
	return nil
}

func runJournalImport(cmd *cobra.Command, args []string) error {
	trades, err := journal.NewCSVLedger(args[0]).LoadTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	j, err := journal.OpenJournal(cmd.Context(), currentCfg.Journal.Type, currentCfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	for i, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return fmt.Errorf("record trade %d (%s): %w", i+1, t.TradeID, err)
		}
	}

	logger.Info().Int("trades", len(trades)).Str("from", args[0]).Msg("import complete")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s\n", len(trades), args[0])

	if c, ok := j.(interface{ CountTrades() (int, error) }); ok {
		n, err := c.CountTrades()
		if err != nil {
			return fmt.Errorf("count trades: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Journal now holds %d trades\n", n)
	}
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	src, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer src.Close()

	trades, err := src.LoadTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	journal.SortByTime(trades)

	out, err := journal.NewCSV(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	for _, t := range trades {
		if err := out.RecordTrade(t); err != nil {
			_ = out.Close()
			return fmt.Errorf("write trade %s: %w", t.TradeID, err)
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), args[0])
	return nil
}
