package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deribit-trader/order"
)

// 端到端：鉴权拿 token，下单带着 token，账本随之登记。
func TestSessionEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/public/auth", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "c", r.URL.Query().Get("client_id"))
		require.Equal(t, "s", r.URL.Query().Get("client_secret"))
		io.WriteString(w, `{"result":{"access_token":"tok123"}}`)
	})
	mux.HandleFunc("/private/buy", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		io.WriteString(w, `{"result":{"order":{"order_id":"ord1"}}}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cli := &DeribitRESTClient{
		BaseURL:      ts.URL + "/",
		ClientID:     "c",
		ClientSecret: "s",
		HTTPClient:   ts.Client(),
		Ledger:       order.NewLedger(),
	}

	session, err := NewSession(cli)
	require.NoError(t, err)
	assert.Equal(t, "tok123", session.Token())

	id, err := session.PlaceOrder("BTC-PERPETUAL", decimal.NewFromInt(10), "market", order.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, "ord1", id)

	orders := session.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ord1", orders[0].ID)
	assert.Equal(t, order.SideBuy, orders[0].Side)
	assert.True(t, decimal.NewFromInt(10).Equal(orders[0].Amount))
	assert.Equal(t, "BTC-PERPETUAL", orders[0].Symbol)
}

func TestNewSessionAuthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"code":13004,"message":"invalid_credentials"}}`)
	}))
	defer ts.Close()

	cli := &DeribitRESTClient{
		BaseURL:      ts.URL + "/",
		ClientID:     "c",
		ClientSecret: "bad",
		HTTPClient:   ts.Client(),
	}
	_, err := NewSession(cli)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_credentials", apiErr.Message)
}

func TestSessionOrdersWithoutLedger(t *testing.T) {
	s := &Session{client: &DeribitRESTClient{}, token: "tok"}
	assert.Nil(t, s.Orders())
}
