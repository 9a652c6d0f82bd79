// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kgllm
// TUI: message bubbles, the status bar, spinner, and syntax-highlighted
// code blocks.
package components
