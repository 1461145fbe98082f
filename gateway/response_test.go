package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelopeShapes(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"result":{"order_state":"open"}}`))
	require.NoError(t, err)
	assert.NotNil(t, env.Result)
	assert.Nil(t, env.Error)

	env, err = decodeEnvelope([]byte(`{"error":{"code":10009,"message":"not_enough_funds"}}`))
	require.NoError(t, err)
	assert.Nil(t, env.Result)
	require.NotNil(t, env.Error)
	assert.Equal(t, int64(10009), env.Error.Code)

	_, err = decodeEnvelope([]byte(`<html>`))
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNotOpenOrderDetection(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"error":{"message":"not_open_order"}}`))
	require.NoError(t, err)
	assert.True(t, env.notOpenOrder())

	env, err = decodeEnvelope([]byte(`{"error":{"message":"other_error"}}`))
	require.NoError(t, err)
	assert.False(t, env.notOpenOrder())
}

// 解码再序列化 result.order，order_id/amount/instrument_name 不丢精度不变形。
func TestOrderResultRoundTrip(t *testing.T) {
	raw := []byte(`{"order_id":"ETH-12345","order_type":"limit","amount":10.000000001,"instrument_name":"ETH-PERPETUAL"}`)

	var o orderResult
	require.NoError(t, json.Unmarshal(raw, &o))
	require.NotNil(t, o.Amount)
	assert.Equal(t, "10.000000001", o.Amount.String())

	out, err := json.Marshal(&o)
	require.NoError(t, err)

	var back orderResult
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, *o.OrderID, *back.OrderID)
	assert.Equal(t, *o.InstrumentName, *back.InstrumentName)
	assert.True(t, o.Amount.Equal(*back.Amount))
}

func TestDecodeResultMismatch(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"result":"just a string"}`))
	require.NoError(t, err)
	var payload orderContainer
	require.ErrorIs(t, env.decodeResult(&payload), ErrMalformedResponse)
}
