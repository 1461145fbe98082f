package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAppendAndList(t *testing.T) {
	l := NewLedger()
	assert.Equal(t, 0, l.Len())

	first := Order{ID: "a", Side: SideBuy, Amount: decimal.NewFromInt(1), Symbol: "BTC-PERPETUAL", PlacedAt: time.Now()}
	second := Order{ID: "b", Side: SideSell, Amount: decimal.NewFromInt(2), Symbol: "ETH-PERPETUAL", PlacedAt: time.Now()}
	l.Append(first)
	l.Append(second)

	entries := l.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}

// 同一 order_id 重复登记是审计语义的一部分，不去重。
func TestLedgerKeepsDuplicateIDs(t *testing.T) {
	l := NewLedger()
	l.Append(Order{ID: "a", Amount: decimal.NewFromInt(10)})
	l.Append(Order{ID: "a", Amount: decimal.NewFromInt(20)})

	entries := l.List()
	require.Len(t, entries, 2)
	assert.True(t, decimal.NewFromInt(10).Equal(entries[0].Amount))
	assert.True(t, decimal.NewFromInt(20).Equal(entries[1].Amount))
}

func TestLedgerListReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Append(Order{ID: "a"})

	entries := l.List()
	entries[0].ID = "mutated"
	assert.Equal(t, "a", l.List()[0].ID)
}
