package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradeperf/pkg/id"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts t, or replaces the row with the same trade ID.
// A trade without an ID is given a fresh ULID.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, t.Units, t.EntryPrice,
		t.ExitPrice, t.AtUTC.UTC(), t.RealizedPL, t.Reason,
	)
	return err
}

// LoadTrades returns every trade in the journal. Rows come back in
// insertion order; callers sort.
func (j *SQLite) LoadTrades(ctx context.Context) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason
		FROM trades`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(s rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Instrument,
		&rec.Units,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.AtUTC,
		&rec.RealizedPL,
		&rec.Reason,
	)
	rec.AtUTC = rec.AtUTC.UTC()
	return rec, err
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
