// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	units REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	at_utc DATETIME NOT NULL,
	realized_pl REAL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_at ON trades(at_utc);
`

// PostgresSchema is the equivalent table for a shared Postgres ledger.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	units DOUBLE PRECISION NOT NULL,
	entry_price DOUBLE PRECISION NOT NULL,
	exit_price DOUBLE PRECISION NOT NULL,
	at_utc TIMESTAMPTZ NOT NULL,
	realized_pl DOUBLE PRECISION,
	reason TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_at ON trades(at_utc);
`
