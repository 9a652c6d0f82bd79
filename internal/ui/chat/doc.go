// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the kgllm TUI.
//
// The view is a thin Bubble Tea layer over the session controller:
// key presses become controller calls, controller change notifications
// come back in as EngineChangedMsg, and the view re-renders the
// message store snapshot. All conversation state lives in the engine,
// none in the view.
package chat
