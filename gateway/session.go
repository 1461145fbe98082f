package gateway

import (
	"deribit-trader/order"

	"github.com/shopspring/decimal"
)

// Session 进程生命周期内的登录态。token 在 NewSession 时获取一次，
// 之后只读，不做刷新；每个私有操作都带着它发出。
type Session struct {
	client *DeribitRESTClient
	token  string
}

// NewSession 鉴权并返回会话。拿不到 token 是唯一的致命启动条件，
// 是否退出由调用方决定。
func NewSession(client *DeribitRESTClient) (*Session, error) {
	token, err := client.Authenticate()
	if err != nil {
		return nil, err
	}
	return &Session{client: client, token: token}, nil
}

// Token 当前 access token。
func (s *Session) Token() string { return s.token }

func (s *Session) PlaceOrder(symbol string, amount decimal.Decimal, priceType, side string) (string, error) {
	return s.client.PlaceOrder(s.token, symbol, amount, priceType, side)
}

func (s *Session) CancelOrder(orderID string) (*CancelOutcome, error) {
	return s.client.CancelOrder(s.token, orderID)
}

func (s *Session) ModifyOrder(orderID string, amount, price decimal.Decimal) (*ModifyOutcome, error) {
	return s.client.ModifyOrder(s.token, orderID, amount, price)
}

func (s *Session) OrderBook(symbol string) (*OrderBookSnapshot, error) {
	return s.client.OrderBook(symbol)
}

func (s *Session) Positions() ([]Position, error) {
	return s.client.Positions(s.token)
}

// Orders 本会话账本里的全部委托记录。
func (s *Session) Orders() []order.Order {
	if s.client.Ledger == nil {
		return nil
	}
	return s.client.Ledger.List()
}
