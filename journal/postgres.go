package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rustyeddy/tradeperf/pkg/id"
)

// Postgres is a ledger kept in a shared Postgres database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool for dsn and verifies it with a ping.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Migrate creates the trades table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, PostgresSchema)
	return err
}

func (p *Postgres) RecordTrade(t TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	_, err := p.pool.Exec(context.Background(), `
		INSERT INTO trades
		(trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (trade_id) DO UPDATE SET
			instrument = EXCLUDED.instrument,
			units = EXCLUDED.units,
			entry_price = EXCLUDED.entry_price,
			exit_price = EXCLUDED.exit_price,
			at_utc = EXCLUDED.at_utc,
			realized_pl = EXCLUDED.realized_pl,
			reason = EXCLUDED.reason`,
		t.TradeID, t.Instrument, t.Units, t.EntryPrice,
		t.ExitPrice, t.AtUTC.UTC(), t.RealizedPL, t.Reason,
	)
	return err
}

func (p *Postgres) LoadTrades(ctx context.Context) ([]TradeRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT trade_id, instrument, units, entry_price, exit_price, at_utc, realized_pl, reason
		FROM trades`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountTrades returns the number of rows in the trades table.
func (p *Postgres) CountTrades() (int, error) {
	var n int
	if err := p.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
