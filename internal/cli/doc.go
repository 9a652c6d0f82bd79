// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the kgllm command line: argument parsing,
// terminal detection, and the non-TUI command handlers (login, ask,
// chat, stats, graph, config).
package cli
