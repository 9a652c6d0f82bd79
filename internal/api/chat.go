// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// SendRequest is the payload for a chat send.
type SendRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// History fetches the prior messages of the session, oldest first.
func (c *Client) History(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/chat/history", nil, "", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Send submits a user message and returns the complete assistant reply.
// The reply carries a server-assigned ID and timestamp; there is no
// transport-level streaming, the full content arrives at once.
func (c *Client) Send(ctx context.Context, text string) (model.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Message{}, ErrTimeout
	}

	body, err := json.Marshal(SendRequest{Content: text, Type: "text"})
	if err != nil {
		return model.Message{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	var reply model.Message
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/chat/send", bytes.NewReader(body), "application/json", &reply); err != nil {
		return model.Message{}, err
	}
	if reply.Role == "" {
		reply.Role = model.RoleAssistant
	}
	return reply, nil
}
