// Package client talks to a message board server over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/messageboard/internal/proto"
)

// ErrMissingFields is returned before any request when name or message is empty.
var ErrMissingFields = errors.New("please fill out both fields")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client is a message board API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostMessage submits a message and returns the record the server stored.
func (c *Client) PostMessage(ctx context.Context, name, message string) (proto.MessageData, error) {
	if name == "" || message == "" {
		return proto.MessageData{}, ErrMissingFields
	}

	payload, err := json.Marshal(proto.PostMessageRequest{Name: proto.Text(name), Message: proto.Text(message)})
	if err != nil {
		return proto.MessageData{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/message", bytes.NewReader(payload))
	if err != nil {
		return proto.MessageData{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out proto.PostMessageResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return proto.MessageData{}, err
	}
	return out.Data, nil
}

// ListMessages fetches every message in insertion order.
func (c *Client) ListMessages(ctx context.Context) ([]proto.MessageRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/messages", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var out []proto.MessageRecord
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Watch calls fn for every message posted while the stream is open.
// It returns nil when ctx is cancelled.
func (c *Client) Watch(ctx context.Context, fn func(proto.MessageRecord)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/messages/stream"

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPClient: c.streamHTTPClient()})
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.CloseNow()

	for {
		var record proto.MessageRecord
		if err := wsjson.Read(ctx, conn, &record); err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "bye")
				return nil
			}
			if websocket.CloseStatus(err) == websocket.StatusGoingAway || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		fn(record)
	}
}

// streamHTTPClient drops the request timeout, which would cut long-lived streams.
func (c *Client) streamHTTPClient() *http.Client {
	hc := *c.http
	hc.Timeout = 0
	return &hc
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var errResp proto.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
