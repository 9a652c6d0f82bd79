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

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// UserRequest is the payload for creating or updating an account.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile fetches the account of the logged-in user.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/profile", nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// =============================================================================
// ADMIN USER CRUD
// =============================================================================

// ListUsers fetches all accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/admin/users", nil, "", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account. Admin only.
func (c *Client) CreateUser(ctx context.Context, req UserRequest) (*model.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}
	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/admin/users", bytes.NewReader(body), "application/json", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account by ID. Admin only.
func (c *Client) UpdateUser(ctx context.Context, id string, req UserRequest) (*model.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}
	var user model.User
	path := "/api/v1/admin/users/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPut, path, bytes.NewReader(body), "application/json", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account by ID. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path := "/api/v1/admin/users/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, "", nil)
}
