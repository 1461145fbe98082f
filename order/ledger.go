package order

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Side 订单方向。
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Order 本会话已被交易所接受的一笔委托。
type Order struct {
	ID       string          // 交易所分配的 order_id，视为不透明字符串
	Side     string          // buy/sell
	Amount   decimal.Decimal // 委托数量
	Symbol   string          // 合约名，例如 BTC-PERPETUAL
	Label    string          // 客户端生成的 label，随请求一起提交
	PlacedAt time.Time       // 本地登记时间
}

// Ledger is the session-scoped audit log of accepted orders. It is
// append-only: a modify records a new entry instead of rewriting the old
// one, and cancellation never prunes it, so List always reflects every
// submission the exchange confirmed during this session.
type Ledger struct {
	mu      sync.RWMutex
	entries []Order
}

// NewLedger 创建空账本。
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append 登记一笔已确认的委托。
func (l *Ledger) Append(o Order) {
	l.mu.Lock()
	l.entries = append(l.entries, o)
	l.mu.Unlock()
}

// List returns all entries in insertion order. The slice is a copy.
func (l *Ledger) List() []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Order, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len 当前登记条数。
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
