// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the KGLLM client.
type ClientConfig struct {
	// BaseURL is the server base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for requests (default: 120s; chat generation is slow)
	Timeout time.Duration

	// SendRate limits outgoing chat sends per second (default: 1/s,
	// burst 3). A stuck UI must not be able to hammer the server.
	SendRate  float64
	SendBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		Timeout:   120 * time.Second,
		SendRate:  1,
		SendBurst: 3,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// TokenSource supplies the current bearer token, or "" when the user is
// not logged in. Passed in explicitly rather than read from ambient
// state so tests and the CLI can substitute their own.
type TokenSource func() string

// Client handles communication with the KGLLM server API.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	token      TokenSource
	limiter    *rate.Limiter
}

// NewClient creates a client with default configuration.
func NewClient(token TokenSource) *Client {
	return NewClientWithConfig(DefaultConfig(), token)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig, token TokenSource) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.SendRate == 0 {
		config.SendRate = 1
	}
	if config.SendBurst == 0 {
		config.SendBurst = 3
	}
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(config.SendRate), config.SendBurst),
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs a request with the bearer token attached and decodes
// the JSON response into out (skipped when out is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// serverError is the error payload shape the server uses.
type serverError struct {
	Detail string `json:"detail"`
}

// statusError maps a non-2xx response onto the error taxonomy.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var se serverError
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&se); err == nil {
		detail = se.Detail
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		msg := "server error: " + resp.Status
		if detail != "" {
			msg = detail
		}
		return &ClientError{Type: ErrTypeServer, Message: msg}
	default:
		msg := "request failed: " + resp.Status
		if detail != "" {
			msg = detail
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: msg}
	}
}
