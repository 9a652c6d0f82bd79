// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
package api

import (
	"context"
	"net/http"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// Graph fetches the full knowledge graph node/edge set.
func (c *Client) Graph(ctx context.Context) (*model.Graph, error) {
	var g model.Graph
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/graph", nil, "", &g); err != nil {
		return nil, err
	}
	return &g, nil
}
