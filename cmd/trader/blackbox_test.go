//go:build blackbox

package main

import (
	"database/sql"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

var traderBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "trader-blackbox-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	traderBin = filepath.Join(tmp, "trader")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", traderBin, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(traderBin, args...)
	cmd.Env = append(os.Environ(), "TRADER_LOG_LEVEL=error")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\noutput:\n%s", err, args, string(out))
	}
	return string(out)
}

func TestImportThenProject(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trader.sqlite")
	csvPath := filepath.Join(dir, "trades.csv")
	cfgPath := filepath.Join(dir, "trader.yaml")

	csv := "trade_id,instrument,at_utc,realized_pl\n" +
		"A,EUR_USD,2024-01-02T10:00:00Z,100\n" +
		"B,EUR_USD,2024-01-02T11:00:00Z,-50\n" +
		"C,EUR_USD,2024-01-02T12:00:00Z,100\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	out := run(t, "config", "init", "--output", cfgPath)
	if !strings.Contains(out, "Created default configuration") {
		t.Fatalf("unexpected config init output:\n%s", out)
	}

	out = run(t, "--config", cfgPath, "--ledger", dbPath, "journal", "import", csvPath)
	if !strings.Contains(out, "Imported 3 trades") {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 trades, got %d", n)
	}

	out = run(t, "--config", cfgPath, "--ledger", dbPath, "stats")
	if !strings.Contains(out, "Net P/L:       150.00 USD") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}

	out = run(t, "--config", cfgPath, "--ledger", dbPath, "project", "--days", "5")
	if !strings.Contains(out, "End Equity:") || !strings.Contains(out, "Days:          5") {
		t.Fatalf("unexpected project output:\n%s", out)
	}
}
