package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// TraceID returns the trace id echoed by the server.
func (r ResponseInfo) TraceID() string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get("X-Trace-Id")
}

// Envelope mirrors the server response wrapper.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
	TraceID string          `json:"trace_id,omitempty"`
}

// DecodeEnvelope parses the response body as an envelope.
func (r ResponseInfo) DecodeEnvelope() (Envelope, error) {
	var env Envelope
	if len(r.Body) == 0 {
		return env, fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return env, fmt.Errorf("decode response envelope failed: %w", err)
	}
	return env, nil
}

// Client wraps HTTP requests for CLI.
type Client struct {
	baseURL       string
	http          *http.Client
	tokenProvider func() string
}

func New(baseURL string, timeout time.Duration, tokenProvider func() string) *Client {
	return &Client{
		baseURL:       baseURL,
		http:          &http.Client{Timeout: timeout},
		tokenProvider: tokenProvider,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.http.Timeout = timeout
	}
}

func (c *Client) Do(ctx context.Context, method, path string, headers map[string]string, body []byte) (ResponseInfo, error) {
	var info ResponseInfo

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return info, fmt.Errorf("build request failed: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	if c.tokenProvider != nil {
		if token := c.tokenProvider(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	info.Headers = resp.Header
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, fmt.Errorf("read response body failed: %w", err)
	}
	info.Body = bodyBytes
	return info, nil
}
