// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the kgllm TUI.
package chat

// EngineChangedMsg signals that the session engine mutated state and
// the view should re-render. The controller's notify hook delivers it
// through tea.Program.Send.
type EngineChangedMsg struct{}

// HistoryLoadedMsg reports the outcome of the initial history fetch.
type HistoryLoadedMsg struct {
	Err error
}

// sendDoneMsg reports the outcome of a blocking send.
type sendDoneMsg struct {
	err error
}

// attachDoneMsg reports the outcome of an attachment selection.
type attachDoneMsg struct {
	err error
}
