package gateway

import (
	"errors"
	"fmt"
)

// 错误分层：传输失败、响应不可解析、字段缺失、交易所侧错误。
// 调用方用 errors.Is / errors.As 区分，所有失败都在操作边界返回，不向外 panic。
var (
	// ErrInvalidSide 下单方向不是 buy/sell，未发起任何网络请求。
	ErrInvalidSide = errors.New(`side must be "buy" or "sell"`)

	// ErrMalformedResponse 响应体不是合法 JSON。
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrNoData 查询响应缺少 result 数据。
	ErrNoData = errors.New("no data in response")
)

// TransportError 连接/DNS/TLS 层失败。不重试，直接终止本次调用。
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MissingFieldError marks a structurally valid response that lacks an
// expected field. Path is the dotted location, e.g. "result.order.order_id".
// Distinct from ErrMalformedResponse so callers can tell "the exchange
// answered but not with what we need" from "the answer was garbage".
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response missing field %q", e.Path)
}

// APIError 交易所通过顶层 error 对象报告的业务错误，带原始 code/message。
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange error %d: %s", e.Code, e.Message)
}

func missingField(path string) error {
	return &MissingFieldError{Path: path}
}
