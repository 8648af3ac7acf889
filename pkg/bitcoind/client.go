package bitcoind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout is the http timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	methodCreateWallet = "createwallet"
)

// Methods that target the node rather than one of its wallets. The
// /wallet/<name> segment is never appended for these.
var nodeGlobalMethods = map[string]struct{}{
	methodCreateWallet:  {},
	"listwallets":       {},
	"loadwallet":        {},
	"unloadwallet":      {},
	"getblockcount":     {},
	"getblockchaininfo": {},
	"getdescriptorinfo": {},
	"generatetoaddress": {},
}

// ConnConfig holds the endpoint and credentials of a bitcoind node.
type ConnConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// Endpoint returns the base url of the node.
func (c ConnConfig) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

func (c ConnConfig) validate() error {
	if c.Host == "" {
		return ErrMissingRPCHost
	}
	if c.Port <= 0 {
		return ErrMissingRPCPort
	}
	return nil
}

// Client is a thin JSON-RPC 1.0 client for bitcoind. It never retries, the
// caller decides what to do with failures.
type Client struct {
	cfg  ConnConfig
	http *http.Client
}

// NewClient returns a client for the node described by the given config.
func NewClient(cfg ConnConfig) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Config returns the connection config of the client.
func (c *Client) Config() ConnConfig {
	return c.cfg
}

// Call invokes method with the given positional params. If wallet is not
// empty and the method is wallet scoped the call is sent to the
// /wallet/<name> endpoint. The result, if any, is unmarshalled into result.
func (c *Client) Call(
	ctx context.Context, method string, params []interface{},
	wallet string, result interface{},
) (err error) {
	defer func() { observeCall(method, err) }()

	if params == nil {
		params = []interface{}{}
	}
	req, err := btcjson.NewRequest(
		btcjson.RpcVersion1, uuid.New().String(), method, params,
	)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.url(method, wallet), bytes.NewReader(body),
	)
	if err != nil {
		return &TransportError{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.User, c.cfg.Password)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("read response: %s", err)}
	}

	// bitcoind replies with non 200 status codes also for rpc errors, the
	// body is what tells them apart from transport failures.
	var rpcResp btcjson.Response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return &TransportError{
			Message: fmt.Sprintf(
				"unexpected response (HTTP %d): %s",
				resp.StatusCode, truncate(string(data), 200),
			),
		}
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    int(rpcResp.Error.Code),
			Message: rpcResp.Error.Message,
		}
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) url(method, wallet string) string {
	endpoint := c.cfg.Endpoint()
	if wallet == "" {
		return endpoint
	}
	if _, ok := nodeGlobalMethods[method]; ok {
		return endpoint
	}
	return fmt.Sprintf("%s/wallet/%s", endpoint, url.PathEscape(wallet))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
