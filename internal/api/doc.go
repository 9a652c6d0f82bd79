// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the KGLLM server.
//
// The client attaches a bearer token to every request, maps HTTP
// failures onto a small typed error taxonomy, and exposes one method
// per server operation: chat history and send, authentication, user
// profile and admin CRUD, system statistics, and the knowledge graph.
//
// Error handling follows a typed-error pattern:
//
//	msg, err := client.Send(ctx, "hello")
//	if api.IsUnauthorized(err) {
//	    // token expired, direct the user to `kgllm login`
//	}
//
// All methods take a context.Context and honor its cancellation and
// deadline.
package api
