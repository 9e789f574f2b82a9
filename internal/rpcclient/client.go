// Package rpcclient provides a JSON-RPC client for namecoind-compatible nodes.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a single call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 32 << 20

var (
	// ErrUnauthorized is returned when the node rejects the credentials.
	ErrUnauthorized = errors.New("rpc credentials rejected")
	// ErrMalformedResponse is returned when the node answers but the
	// response or its result does not decode.
	ErrMalformedResponse = errors.New("malformed rpc response")
)

// Client is a JSON-RPC 1.0 HTTP client using basic authentication.
type Client struct {
	endpoint string
	user     string
	password string
	http     *http.Client
	nextID   atomic.Uint64
}

// NewWithTimeout creates a new RPC client with a custom HTTP timeout.
// A non-positive timeout selects DefaultTimeout.
func NewWithTimeout(endpoint, user, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		user:     user,
		password: password,
		http: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// request is a JSON-RPC 1.0 request.
type request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// response is a JSON-RPC 1.0 response.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     uint64          `json:"id"`
}

// rpcError is a JSON-RPC error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the server responds with an error.
type RPCError struct {
	Method  string
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPError is returned when the server answers with a non-200 status and
// no JSON-RPC error body.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %s", e.Status)
}

// Call invokes a JSON-RPC method with positional params and unmarshals the
// result into the provided pointer. Numbers are decoded as json.Number so
// amounts keep their exact decimal form. If result is nil, the response
// result is discarded.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	req := request{
		JSONRPC: "1.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		return fmt.Errorf("%w: decode response: %w", ErrMalformedResponse, err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Method:  method,
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if result != nil && len(rpcResp.Result) > 0 {
		dec := json.NewDecoder(bytes.NewReader(rpcResp.Result))
		dec.UseNumber()
		if err := dec.Decode(result); err != nil {
			return fmt.Errorf("%w: decode result: %w", ErrMalformedResponse, err)
		}
	}

	return nil
}
