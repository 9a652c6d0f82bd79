// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RegisterRequest is the payload for account self-registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login exchanges credentials for a bearer token. The server expects a
// form-encoded body (OAuth2 password flow).
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var result LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &result)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "login response missing token"}
	}
	return &result, nil
}

// Register creates a new account and returns the session token for it,
// so a fresh install can go straight from register to chatting. An
// already-taken username or email surfaces as a server error with the
// backend's detail message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	var result LoginResponse
	err = c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register",
		bytes.NewReader(body), "application/json", &result)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "register response missing token"}
	}
	return &result, nil
}
