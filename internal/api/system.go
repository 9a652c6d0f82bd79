// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import (
	"context"
	"net/http"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// Stats fetches the server resource snapshot for the dashboard.
func (c *Client) Stats(ctx context.Context) (*model.SystemStats, error) {
	var stats model.SystemStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/system/stats", nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
