package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL, User: "rpcuser", Password: "rpcpass"})
}

func respond(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"result": result,
		"error":  nil,
		"id":     1,
	}))
}

func TestBlockCount(t *testing.T) {
	c := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rpcuser", user)
		assert.Equal(t, "rpcpass", pass)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getblockcount", req["method"])

		respond(t, w, 2834567)
	})

	height, err := c.BlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2834567), height)
}

func TestNodeErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"result": nil,
			"error":  map[string]any{"code": -13, "message": "wallet locked"},
			"id":     1,
		}))
	})

	err := c.Unlock(context.Background(), "wrong", 0)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -13, rpcErr.Code)
	assert.Equal(t, int32(1), calls.Load(), "application errors must not be retried")
}

func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		respond(t, w, "fresh-address")
	})

	addr, err := c.NewAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-address", addr)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendToAddress(t *testing.T) {
	c := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sendtoaddress", req.Method)
		require.Len(t, req.Params, 2)
		assert.Equal(t, "Sdest", req.Params[0])
		assert.Equal(t, 1.99, req.Params[1])

		respond(t, w, "txid-abc")
	})

	txid, err := c.SendToAddress(context.Background(), "Sdest", 1.99)
	require.NoError(t, err)
	assert.Equal(t, "txid-abc", txid)
}

func TestValidateAddress(t *testing.T) {
	c := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, map[string]any{"isvalid": false})
	})

	valid, err := c.ValidateAddress(context.Background(), "garbage")
	require.NoError(t, err)
	assert.False(t, valid)
}
