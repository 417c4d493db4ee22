package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	assert.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	at := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)

	rec := TradeRecord{
		TradeID:    "T1",
		Instrument: "EUR_USD",
		Units:      123.456,
		EntryPrice: 1.2345678,
		ExitPrice:  1.3456789,
		AtUTC:      at,
		RealizedPL: PLOf(-12.5),
		Reason:     "test",
	}

	assert.NoError(t, j.RecordTrade(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		tradeID    string
		instrument string
		units      float64
		atUTC      time.Time
		realizedPL sql.NullFloat64
	)

	err = db.QueryRow(`
        SELECT trade_id, instrument, units, at_utc, realized_pl
        FROM trades LIMIT 1`).Scan(&tradeID, &instrument, &units, &atUTC, &realizedPL)
	require.NoError(t, err)

	assert.Equal(t, rec.TradeID, tradeID)
	assert.Equal(t, rec.Instrument, instrument)
	assert.InDelta(t, rec.Units, units, 1e-6)
	assert.True(t, atUTC.Equal(at))
	assert.True(t, realizedPL.Valid)
	assert.InDelta(t, -12.5, realizedPL.Float64, 1e-9)
}

func TestSQLiteRecordTradeNullPL(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:    "OPEN",
		Instrument: "EUR_USD",
		AtUTC:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}))

	got, err := j.GetTrade("OPEN")
	require.NoError(t, err)
	assert.Nil(t, got.RealizedPL)
	assert.False(t, got.HasPL())
}

func TestSQLiteRecordTradeAssignsID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordTrade(TradeRecord{
		Instrument: "EUR_USD",
		AtUTC:      time.Now(),
		RealizedPL: PLOf(1),
	}))

	trades, err := j.LoadTrades(context.Background())
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Len(t, trades[0].TradeID, 26)
}

func TestSQLiteRecordTradeReplaces(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{TradeID: "T1", AtUTC: at}))
	require.NoError(t, j.RecordTrade(TradeRecord{TradeID: "T1", AtUTC: at, RealizedPL: PLOf(40)}))

	n, err := j.CountTrades()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.PL())
}

func TestSQLiteLoadTrades(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{TradeID: "B", AtUTC: base.Add(time.Hour), RealizedPL: PLOf(-5)}))
	require.NoError(t, j.RecordTrade(TradeRecord{TradeID: "A", AtUTC: base, RealizedPL: PLOf(10)}))
	require.NoError(t, j.RecordTrade(TradeRecord{TradeID: "C", AtUTC: base.Add(2 * time.Hour)}))

	trades, err := j.LoadTrades(context.Background())
	require.NoError(t, err)
	require.Len(t, trades, 3)

	SortByTime(trades)
	assert.Equal(t, "A", trades[0].TradeID)
	assert.Equal(t, "B", trades[1].TradeID)
	assert.Equal(t, "C", trades[2].TradeID)
	assert.Equal(t, 10.0, trades[0].PL())
	assert.Nil(t, trades[2].RealizedPL)
	assert.Equal(t, time.UTC, trades[0].AtUTC.Location())
}

func TestSQLiteLoadTradesEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	trades, err := j.LoadTrades(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades)
}
