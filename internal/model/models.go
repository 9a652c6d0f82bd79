// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the kgllm client.
package model

import "time"

// =============================================================================
// USERS
// =============================================================================

// User is an account on the KGLLM server.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the account may manage other users.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// =============================================================================
// SYSTEM STATISTICS
// =============================================================================

// SystemStats is the server resource snapshot shown on the dashboard.
// All values are percentages in [0, 100].
type SystemStats struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
}

// =============================================================================
// KNOWLEDGE GRAPH
// =============================================================================

// GraphNode is a single entity in the knowledge graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GraphEdge is a directed, labeled relation between two nodes.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Graph is the full node/edge set returned by the server.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Neighbors returns the edges leaving the given node, in input order.
func (g Graph) Neighbors(nodeID string) []GraphEdge {
	var out []GraphEdge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// NodeByID looks up a node by its identifier.
func (g Graph) NodeByID(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}
