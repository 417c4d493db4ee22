package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTradeRecordPL(t *testing.T) {
	t.Parallel()

	open := TradeRecord{TradeID: "open"}
	assert.False(t, open.HasPL())
	assert.Equal(t, 0.0, open.PL())

	closed := TradeRecord{TradeID: "closed", RealizedPL: PLOf(-12.5)}
	assert.True(t, closed.HasPL())
	assert.Equal(t, -12.5, closed.PL())
}

func TestSortByTime(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	trades := []TradeRecord{
		{TradeID: "c", AtUTC: base.Add(2 * time.Hour)},
		{TradeID: "a1", AtUTC: base},
		{TradeID: "b", AtUTC: base.Add(time.Hour)},
		{TradeID: "a2", AtUTC: base},
	}
	assert.False(t, Sorted(trades))

	SortByTime(trades)

	ids := make([]string, 0, len(trades))
	for _, tr := range trades {
		ids = append(ids, tr.TradeID)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
	assert.True(t, Sorted(trades))
}

func TestSortByTimeEmpty(t *testing.T) {
	t.Parallel()

	var trades []TradeRecord
	SortByTime(trades)
	assert.True(t, Sorted(trades))
}
