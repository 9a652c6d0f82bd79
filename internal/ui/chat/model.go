// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the kgllm TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Nailong-Research-Team/kgllm/internal/session"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/components"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// inputMode selects what the composer line is editing.
type inputMode int

const (
	modeCompose inputMode = iota // normal message text
	modeAttach                   // file path for an attachment
)

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme     *styles.Theme
	engine    *session.Controller
	serverURL string

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spin      spinner.Model
	statusBar components.StatusBar
	keys      KeyMap

	// Dimensions
	width  int
	height int
	sized  bool

	// Composer mode
	mode inputMode

	// Last surfaced diagnostic, cleared on the next successful action.
	errText string
}

// New creates the chat view bound to a session engine.
func New(theme *styles.Theme, engine *session.Controller, serverURL string) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.PlaceholderStyle = theme.InputPlaceholder
	input.PromptStyle = theme.InputPrompt
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	return Model{
		theme:     theme,
		engine:    engine,
		serverURL: serverURL,
		viewport:  viewport.New(0, 0),
		input:     input,
		spin:      components.NewSpinner(theme),
		statusBar: components.NewStatusBar(theme),
		keys:      DefaultKeyMap(),
	}
}

// Engine exposes the session controller for teardown by the caller.
func (m Model) Engine() *session.Controller {
	return m.engine
}

// SetSize lays the view out for the given area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// viewport height: total minus input area (3) and status bar (1).
	vh := height - 4
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vh
	m.input.Width = width - 6
	m.sized = true
	m.refreshViewport()
}
