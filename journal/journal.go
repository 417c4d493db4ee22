// journal/journal.go
package journal

import (
	"context"
	"errors"
	"sort"
	"time"
)

var ErrTradeNotFound = errors.New("trade not found")

// TradeRecord is one executed trade as stored in a ledger. RealizedPL is nil
// while the trade is open or when the source does not track P/L.
type TradeRecord struct {
	TradeID    string
	Instrument string
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	AtUTC      time.Time
	RealizedPL *float64
	Reason     string
}

// PL returns the realized P/L, or 0 when it is not known.
func (t TradeRecord) PL() float64 {
	if t.RealizedPL == nil {
		return 0
	}
	return *t.RealizedPL
}

// HasPL reports whether the trade carries a realized P/L.
func (t TradeRecord) HasPL() bool {
	return t.RealizedPL != nil
}

// PLOf is a small helper for building records with a known P/L.
func PLOf(v float64) *float64 {
	return &v
}

// Journal receives trades as they are executed.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Ledger is a source of historical trades. Implementations make no
// promise about ordering; use SortByTime before analysis.
type Ledger interface {
	LoadTrades(ctx context.Context) ([]TradeRecord, error)
}

// SortByTime orders trades by AtUTC ascending in place. Trades with equal
// timestamps keep their ledger order.
func SortByTime(trades []TradeRecord) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].AtUTC.Before(trades[j].AtUTC)
	})
}

// Sorted reports whether trades are in ascending AtUTC order.
func Sorted(trades []TradeRecord) bool {
	return sort.SliceIsSorted(trades, func(i, j int) bool {
		return trades[i].AtUTC.Before(trades[j].AtUTC)
	})
}
