package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose at_utc is within [start, end),
// oldest first.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason
		FROM trades
		WHERE at_utc >= ? AND at_utc < ?
		ORDER BY at_utc ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// CountTrades returns the number of rows in the trades table.
func (j *SQLite) CountTrades() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
