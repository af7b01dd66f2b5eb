// Package wallet is a thin JSON-RPC client for the coin daemon. The gateway
// only needs liveness, unlock, address issuance and on-chain sends; anything
// richer goes through Query directly.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keshon/walletkeeper/pkg/retrylimit"
)

type Config struct {
	URL      string
	User     string
	Password string
	Timeout  time.Duration
}

type Client struct {
	url      string
	user     string
	password string
	http     *http.Client
	lim      *retrylimit.AdaptiveLimiter
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:      cfg.URL,
		user:     cfg.User,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
		lim:      retrylimit.NewAdaptiveLimiter(5, 1, 20),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     int             `json:"id"`
}

// RPCError is an application-level error returned by the node. It is never
// retried.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

// Query makes one RPC call, paced and retried on transport faults.
func (c *Client) Query(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	var result json.RawMessage
	err := retrylimit.WithRetry(ctx, c.lim, 3, func() error {
		var callErr error
		result, callErr = c.call(ctx, method, params)
		return callErr
	})
	return result, err
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, retrylimit.Transient(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retrylimit.Transient(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, retrylimit.Transient(fmt.Errorf("node returned status %d", resp.StatusCode))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// BlockCount returns the node's current chain height.
func (c *Client) BlockCount(ctx context.Context) (int64, error) {
	result, err := c.Query(ctx, "getblockcount", nil)
	if err != nil {
		return 0, err
	}
	var height int64
	if err := json.Unmarshal(result, &height); err != nil {
		return 0, fmt.Errorf("decode block count: %w", err)
	}
	return height, nil
}

// Unlock opens the wallet for spending. seconds=0 keeps it unlocked until
// the daemon restarts.
func (c *Client) Unlock(ctx context.Context, passphrase string, seconds int64) error {
	_, err := c.Query(ctx, "walletpassphrase", []any{passphrase, seconds})
	return err
}

// NewAddress issues a fresh deposit address.
func (c *Client) NewAddress(ctx context.Context) (string, error) {
	result, err := c.Query(ctx, "getnewaddress", nil)
	if err != nil {
		return "", err
	}
	var addr string
	if err := json.Unmarshal(result, &addr); err != nil {
		return "", fmt.Errorf("decode address: %w", err)
	}
	return addr, nil
}

// SendToAddress moves coin on-chain and returns the transaction id.
func (c *Client) SendToAddress(ctx context.Context, address string, amount float64) (string, error) {
	result, err := c.Query(ctx, "sendtoaddress", []any{address, amount})
	if err != nil {
		return "", err
	}
	var txid string
	if err := json.Unmarshal(result, &txid); err != nil {
		return "", fmt.Errorf("decode txid: %w", err)
	}
	return txid, nil
}

// ValidateAddress asks the node whether address is well-formed for its chain.
func (c *Client) ValidateAddress(ctx context.Context, address string) (bool, error) {
	result, err := c.Query(ctx, "validateaddress", []any{address})
	if err != nil {
		return false, err
	}
	var out struct {
		IsValid bool `json:"isvalid"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		return false, fmt.Errorf("decode validation: %w", err)
	}
	return out.IsValid, nil
}
