package gateway

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deribit-trader/infrastructure/logger"
	"deribit-trader/metrics"
	"deribit-trader/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deribit REST v2 端点。全部走 GET + query string。
const (
	epAuth      = "public/auth"
	epOrderBook = "public/get_order_book"
	epBuy       = "private/buy"
	epSell      = "private/sell"
	epCancel    = "private/cancel"
	epEdit      = "private/edit"
	epPositions = "private/get_positions"
)

// timeNow 可在测试里替换，保证账本时间戳可断言。
var timeNow = time.Now

// DeribitRESTClient 同步阻塞的 Deribit 客户端；每个操作一次请求一次响应，
// 不重试不限流。HTTPClient 可注入 httptest，Ledger/Logger 可选。
type DeribitRESTClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	Ledger       *order.Ledger  // 下单/改单被接受后追加记录
	Logger       *logger.Logger // 可选，记录传输失败与已接受的委托
}

// CancelOutcome private/cancel 的两种正常结局。
type CancelOutcome struct {
	NotOpen bool   // 订单已不在开放状态（已成交/已撤销），不算失败
	State   string // 撤销后的 order_state
}

// ModifyOutcome private/edit 的两种正常结局。
type ModifyOutcome struct {
	NotOpen bool
	OrderID string
}

// Authenticate 用 client_credentials 换取 access token。失败即本次会话终止，
// 由调用方决定是否退出进程。
func (c *DeribitRESTClient) Authenticate() (string, error) {
	params := url.Values{}
	params.Set("client_id", c.ClientID)
	params.Set("client_secret", c.ClientSecret)
	params.Set("grant_type", "client_credentials")

	body, err := c.get(epAuth, "", params)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if err := env.apiErr(); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if env.Result == nil {
		return "", fmt.Errorf("authenticate: %w", missingField("result.access_token"))
	}
	var res authResult
	if err := env.decodeResult(&res); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if res.AccessToken == nil {
		return "", fmt.Errorf("authenticate: %w", missingField("result.access_token"))
	}
	return *res.AccessToken, nil
}

// PlaceOrder 提交买/卖委托。side 不是 buy/sell 时直接拒绝，不发请求。
// 交易所返回可解析的 order_id 才会写入账本。
func (c *DeribitRESTClient) PlaceOrder(token, symbol string, amount decimal.Decimal, priceType, side string) (string, error) {
	var endpoint string
	switch side {
	case order.SideBuy:
		endpoint = epBuy
	case order.SideSell:
		endpoint = epSell
	default:
		return "", ErrInvalidSide
	}

	label := uuid.NewString()
	params := url.Values{}
	params.Set("amount", amount.String())
	params.Set("instrument_name", symbol)
	params.Set("type", priceType)
	params.Set("label", label)

	body, err := c.get(endpoint, token, params)
	if err != nil {
		return "", err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return "", err
	}
	if err := env.apiErr(); err != nil {
		return "", err
	}
	if env.Result == nil {
		return "", missingField("result.order.order_id")
	}
	var payload orderContainer
	if err := env.decodeResult(&payload); err != nil {
		return "", err
	}
	if payload.Order == nil || payload.Order.OrderID == nil {
		return "", missingField("result.order.order_id")
	}

	id := *payload.Order.OrderID
	if c.Ledger != nil {
		c.Ledger.Append(order.Order{
			ID:       id,
			Side:     side,
			Amount:   amount,
			Symbol:   symbol,
			Label:    label,
			PlacedAt: timeNow(),
		})
	}
	metrics.OrdersPlaced.Inc()
	if c.Logger != nil {
		c.Logger.LogOrder("order_place", id, map[string]interface{}{
			"symbol": symbol, "side": side, "amount": amount.String(), "type": priceType,
		})
	}
	return id, nil
}

// CancelOrder 撤单。not_open_order 被视为正常结局而非错误；账本不变。
func (c *DeribitRESTClient) CancelOrder(token, orderID string) (*CancelOutcome, error) {
	params := url.Values{}
	params.Set("order_id", orderID)

	body, err := c.get(epCancel, token, params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.notOpenOrder() {
		return &CancelOutcome{NotOpen: true}, nil
	}
	if err := env.apiErr(); err != nil {
		return nil, err
	}
	if env.Result == nil {
		return nil, missingField("result.order_state")
	}
	var res cancelResult
	if err := env.decodeResult(&res); err != nil {
		return nil, err
	}
	if res.OrderState == nil {
		return nil, missingField("result.order_state")
	}
	return &CancelOutcome{State: *res.OrderState}, nil
}

// ModifyOrder 改单。成功时在账本里追加一条新记录而不是改写旧记录，
// 账本语义见 order.Ledger。
func (c *DeribitRESTClient) ModifyOrder(token, orderID string, amount, price decimal.Decimal) (*ModifyOutcome, error) {
	params := url.Values{}
	params.Set("order_id", orderID)
	params.Set("amount", amount.String())
	params.Set("price", price.String())

	body, err := c.get(epEdit, token, params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.notOpenOrder() {
		return &ModifyOutcome{NotOpen: true}, nil
	}
	if err := env.apiErr(); err != nil {
		return nil, err
	}
	if env.Result == nil {
		return nil, missingField("result.order")
	}
	var payload orderContainer
	if err := env.decodeResult(&payload); err != nil {
		return nil, err
	}
	o := payload.Order
	switch {
	case o == nil, o.OrderID == nil:
		return nil, missingField("result.order.order_id")
	case o.OrderType == nil:
		return nil, missingField("result.order.order_type")
	case o.Amount == nil:
		return nil, missingField("result.order.amount")
	case o.InstrumentName == nil:
		return nil, missingField("result.order.instrument_name")
	}

	// 方向优先取 direction；老网关的 edit 响应只带 order_type。
	side := *o.OrderType
	if o.Direction != nil {
		side = *o.Direction
	}
	if c.Ledger != nil {
		c.Ledger.Append(order.Order{
			ID:       *o.OrderID,
			Side:     side,
			Amount:   *o.Amount,
			Symbol:   *o.InstrumentName,
			PlacedAt: timeNow(),
		})
	}
	if c.Logger != nil {
		c.Logger.LogOrder("order_modify", *o.OrderID, map[string]interface{}{
			"symbol": *o.InstrumentName, "amount": o.Amount.String(), "price": price.String(),
		})
	}
	return &ModifyOutcome{OrderID: *o.OrderID}, nil
}

// OrderBook 公共盘口查询，无需鉴权。result 或任一字段缺失都按 ErrNoData 处理。
// 相同响应字节必然产出相同快照。
func (c *DeribitRESTClient) OrderBook(symbol string) (*OrderBookSnapshot, error) {
	params := url.Values{}
	params.Set("instrument_name", symbol)

	body, err := c.get(epOrderBook, "", params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if err := env.apiErr(); err != nil {
		return nil, err
	}
	if env.Result == nil {
		return nil, ErrNoData
	}
	var res bookResult
	if err := env.decodeResult(&res); err != nil {
		return nil, err
	}
	if res.InstrumentName == nil || res.BestBidPrice == nil || res.BestBidAmount == nil ||
		res.BestAskPrice == nil || res.BestAskAmount == nil || res.LastPrice == nil ||
		res.MarkPrice == nil || res.Stats == nil || res.Stats.Volume == nil ||
		res.Stats.Low == nil || res.Stats.High == nil {
		return nil, ErrNoData
	}
	return &OrderBookSnapshot{
		Instrument:    *res.InstrumentName,
		BestBidPrice:  *res.BestBidPrice,
		BestBidAmount: *res.BestBidAmount,
		BestAskPrice:  *res.BestAskPrice,
		BestAskAmount: *res.BestAskAmount,
		LastPrice:     *res.LastPrice,
		MarkPrice:     *res.MarkPrice,
		Volume:        *res.Stats.Volume,
		Low:           *res.Stats.Low,
		High:          *res.Stats.High,
	}, nil
}

// Positions 当前持仓。result 为空数组是合法结果，与 result 缺失严格区分。
func (c *DeribitRESTClient) Positions(token string) ([]Position, error) {
	body, err := c.get(epPositions, token, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if err := env.apiErr(); err != nil {
		return nil, err
	}
	if env.Result == nil {
		return nil, ErrNoData
	}
	var recs []positionRecord
	if err := env.decodeResult(&recs); err != nil {
		return nil, err
	}
	out := make([]Position, 0, len(recs))
	for _, r := range recs {
		out = append(out, Position{
			Instrument:   strVal(r.InstrumentName),
			Direction:    strVal(r.Direction),
			Size:         floatVal(r.Size),
			AveragePrice: floatVal(r.AveragePrice),
			MarkPrice:    floatVal(r.MarkPrice),
			FloatingPnL:  floatVal(r.FloatingProfitLoss),
			Leverage:     floatVal(r.Leverage),
		})
	}
	return out, nil
}

// get 执行一次 GET 并读回完整响应体。传输失败返回 *TransportError。
func (c *DeribitRESTClient) get(endpoint, token string, params url.Values) ([]byte, error) {
	if c.HTTPClient == nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("http client not set")}
	}
	reqURL := strings.TrimSuffix(c.BaseURL, "/") + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := timeNow()
	resp, err := c.HTTPClient.Do(req)
	metrics.ObserveRequest(endpoint, time.Since(start), err != nil)
	if err != nil {
		terr := &TransportError{Endpoint: endpoint, Err: err}
		if c.Logger != nil {
			c.Logger.LogError(terr, map[string]interface{}{"endpoint": endpoint})
		}
		return nil, terr
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return body, nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatVal(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// NewDefaultHTTPClient 带超时的默认客户端，TLS 证书校验开启。
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// NewInsecureHTTPClient disables TLS certificate verification. Opt-in via
// -insecureTLS for self-signed test endpoints only.
func NewInsecureHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}
