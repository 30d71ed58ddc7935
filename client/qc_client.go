/*
 * @module client/qc_client
 * @description HTTP client of the QC service API used by qcctl and integration scripts
 * @architecture Adapter pattern - wraps the REST API and its response envelope
 * @stateFlow build request -> send -> decode envelope -> typed data or APIError
 * @rules Every request carries the operator header when one is configured; non-zero envelope status is an error
 * @dependencies net/http, encoding/json
 * @refs api/routes.go, cmd/qcctl
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// OperatorHeader carries the operator identity.
const OperatorHeader = "X-Operator-Name"

// Config configures NewQCClient.
type Config struct {
	BaseURL  string        `json:"base_url"`
	Operator string        `json:"operator"`
	Timeout  time.Duration `json:"timeout"`
}

// QCClient calls the QC service.
type QCClient struct {
	baseURL    string
	operator   string
	httpClient *http.Client
	stats      *ClientStats
}

// ClientStats counts requests.
type ClientStats struct {
	RequestCount    int64     `json:"request_count"`
	SuccessCount    int64     `json:"success_count"`
	ErrorCount      int64     `json:"error_count"`
	LastRequestTime time.Time `json:"last_request_time"`
	mutex           sync.RWMutex
}

// Envelope is the response body of every QC endpoint.
type Envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Total  int64           `json:"total,omitempty"`
}

// APIError is a non-success response.
type APIError struct {
	StatusCode int
	Msg        string
	Data       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Msg)
}

// NewQCClient creates a client.
func NewQCClient(cfg Config) *QCClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &QCClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		operator:   cfg.Operator,
		httpClient: &http.Client{Timeout: timeout},
		stats:      &ClientStats{},
	}
}

// MakeRequest sends body as JSON and decodes the envelope. A non-success
// envelope or status code returns *APIError together with the envelope.
func (c *QCClient) MakeRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*Envelope, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.operator != "" {
		req.Header.Set(OperatorHeader, c.operator)
	}

	c.stats.mutex.Lock()
	c.stats.RequestCount++
	c.stats.LastRequestTime = time.Now()
	c.stats.mutex.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.countError()
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.countError()
		return nil, fmt.Errorf("decode %s %s (HTTP %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || env.Status != 0 {
		c.countError()
		return &env, &APIError{StatusCode: resp.StatusCode, Msg: env.Msg, Data: env.Data}
	}

	c.stats.mutex.Lock()
	c.stats.SuccessCount++
	c.stats.mutex.Unlock()
	return &env, nil
}

func (c *QCClient) countError() {
	c.stats.mutex.Lock()
	c.stats.ErrorCount++
	c.stats.mutex.Unlock()
}

// Do is MakeRequest decoding the envelope data into out when out is non-nil.
func (c *QCClient) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (string, error) {
	env, err := c.MakeRequest(ctx, method, path, query, body)
	if err != nil {
		return "", err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Msg, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Msg, nil
}

// GetStatistics returns a snapshot of the request counters.
func (c *QCClient) GetStatistics() map[string]interface{} {
	c.stats.mutex.RLock()
	defer c.stats.mutex.RUnlock()
	return map[string]interface{}{
		"base_url":          c.baseURL,
		"request_count":     c.stats.RequestCount,
		"success_count":     c.stats.SuccessCount,
		"error_count":       c.stats.ErrorCount,
		"last_request_time": c.stats.LastRequestTime,
	}
}
