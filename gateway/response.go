package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Deribit 响应只有三种形态：带 result 的成功、空 result 的成功、带顶层 error
// 的业务失败。每个端点各自一个 payload 结构，字段用指针表达"缺失"，
// 避免在通用 JSON 树上做点路径探测。

type apiError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

// decodeEnvelope 解析响应外层。字节流不是合法 JSON 时返回 ErrMalformedResponse。
func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &env, nil
}

// decodeResult 将 result 解析为端点对应的形态。
func (e *envelope) decodeResult(v interface{}) error {
	if err := json.Unmarshal(e.Result, v); err != nil {
		return fmt.Errorf("%w: result: %v", ErrMalformedResponse, err)
	}
	return nil
}

// apiErr 顶层 error 存在时返回对应的 *APIError。
func (e *envelope) apiErr() error {
	if e.Error == nil {
		return nil
	}
	return &APIError{Code: e.Error.Code, Message: e.Error.Message}
}

// notOpenOrder 撤单/改单时交易所唯一被特判的业务错误：
// 订单已成交/已撤销，不算客户端失败。
func (e *envelope) notOpenOrder() bool {
	return e.Error != nil && e.Error.Message == "not_open_order"
}

type authResult struct {
	AccessToken *string `json:"access_token"`
}

// orderResult 下单与改单响应里 result.order 的字段子集。
// 数量与价格走 decimal，避免 float64 精度丢失。
type orderResult struct {
	OrderID        *string          `json:"order_id"`
	OrderType      *string          `json:"order_type"`
	Direction      *string          `json:"direction"`
	Amount         *decimal.Decimal `json:"amount"`
	Price          *decimal.Decimal `json:"price"`
	InstrumentName *string          `json:"instrument_name"`
	OrderState     *string          `json:"order_state"`
}

type orderContainer struct {
	Order *orderResult `json:"order"`
}

type cancelResult struct {
	OrderState *string `json:"order_state"`
}

type bookStats struct {
	Volume *float64 `json:"volume"`
	Low    *float64 `json:"low"`
	High   *float64 `json:"high"`
}

type bookResult struct {
	InstrumentName *string    `json:"instrument_name"`
	BestBidPrice   *float64   `json:"best_bid_price"`
	BestBidAmount  *float64   `json:"best_bid_amount"`
	BestAskPrice   *float64   `json:"best_ask_price"`
	BestAskAmount  *float64   `json:"best_ask_amount"`
	LastPrice      *float64   `json:"last_price"`
	MarkPrice      *float64   `json:"mark_price"`
	Stats          *bookStats `json:"stats"`
}

type positionRecord struct {
	InstrumentName     *string  `json:"instrument_name"`
	Direction          *string  `json:"direction"`
	Size               *float64 `json:"size"`
	AveragePrice       *float64 `json:"average_price"`
	MarkPrice          *float64 `json:"mark_price"`
	FloatingProfitLoss *float64 `json:"floating_profit_loss"`
	Leverage           *float64 `json:"leverage"`
}

// OrderBookSnapshot 单次 public/get_order_book 查询的盘口快照，不做持久化。
type OrderBookSnapshot struct {
	Instrument    string
	BestBidPrice  float64
	BestBidAmount float64
	BestAskPrice  float64
	BestAskAmount float64
	LastPrice     float64
	MarkPrice     float64
	Volume        float64
	Low           float64
	High          float64
}

// Position 单次 private/get_positions 查询返回的持仓快照。
type Position struct {
	Instrument   string
	Direction    string
	Size         float64
	AveragePrice float64
	MarkPrice    float64
	FloatingPnL  float64
	Leverage     float64
}
