// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the kgllm
// client: chat messages and the message store, user accounts, system
// statistics, and the knowledge graph.
//
// The message store is the single source of truth rendered by the view
// layer. It is an ordered, append-only log with one exception: in-place
// amendment of the last entry's content, which exists solely to support
// the incremental reveal of an assistant reply without re-keying the
// list on every tick.
package model
