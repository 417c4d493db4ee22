package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeperf/pkg/id"
)

var csvHeader = []string{"trade_id", "instrument", "units", "entry_price", "exit_price", "at_utc", "realized_pl", "reason"}

type CSVJournal struct {
	trades *csv.Writer
	tf     *os.File
}

func NewCSV(tradesPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}

	tw := csv.NewWriter(tf)
	if err := tw.Write(csvHeader); err != nil {
		_ = tf.Close()
		return nil, err
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		_ = tf.Close()
		return nil, err
	}

	return &CSVJournal{trades: tw, tf: tf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	pl := ""
	if t.RealizedPL != nil {
		pl = f(*t.RealizedPL)
	}
	err := j.trades.Write([]string{
		t.TradeID,
		t.Instrument,
		f(t.Units),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.AtUTC.UTC().Format(time.RFC3339),
		pl,
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	return j.tf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// CSVLedger reads trades from a CSV file with a header row. Only at_utc is
// required; other known columns are picked up by name.
type CSVLedger struct {
	Path string
}

func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{Path: path}
}

func (l *CSVLedger) LoadTrades(ctx context.Context) ([]TradeRecord, error) {
	fh, err := os.Open(l.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return ReadCSV(ctx, fh)
}

// ReadCSV parses trades from r. A blank realized_pl cell means the P/L is
// not known. Rows without a trade_id get a generated one.
func ReadCSV(ctx context.Context, r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["at_utc"]; !ok {
		return nil, fmt.Errorf("csv header missing at_utc column")
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []TradeRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := TradeRecord{
			TradeID:    cell(row, "trade_id"),
			Instrument: cell(row, "instrument"),
			Reason:     cell(row, "reason"),
		}

		rec.AtUTC, err = time.Parse(time.RFC3339, cell(row, "at_utc"))
		if err != nil {
			return nil, fmt.Errorf("line %d: at_utc: %w", line, err)
		}
		rec.AtUTC = rec.AtUTC.UTC()
		if rec.TradeID == "" {
			rec.TradeID = id.NewAt(rec.AtUTC)
		}

		for _, fld := range []struct {
			name string
			dst  *float64
		}{
			{"units", &rec.Units},
			{"entry_price", &rec.EntryPrice},
			{"exit_price", &rec.ExitPrice},
		} {
			v, ok, err := parseAmount(cell(row, fld.name))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, fld.name, err)
			}
			if ok {
				*fld.dst = v
			}
		}

		pl, ok, err := parseAmount(cell(row, "realized_pl"))
		if err != nil {
			return nil, fmt.Errorf("line %d: realized_pl: %w", line, err)
		}
		if ok {
			rec.RealizedPL = &pl
		}

		out = append(out, rec)
	}
	return out, nil
}

// parseAmount parses a decimal cell. An empty cell reports ok == false.
func parseAmount(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false, err
	}
	v, _ := d.Float64()
	return v, true, nil
}
