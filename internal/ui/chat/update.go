// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the kgllm TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nailong-Research-Team/kgllm/internal/session"
)

// Init starts the spinner and kicks off the history load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		loadHistoryCmd(m.engine),
	)
}

// loadHistoryCmd fetches the prior conversation off the UI goroutine.
func loadHistoryCmd(engine *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{Err: engine.LoadHistory(context.Background())}
	}
}

// sendCmd runs the blocking send off the UI goroutine. Reveal progress
// arrives separately through EngineChangedMsg.
func sendCmd(engine *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: engine.Send(text)}
	}
}

// attachCmd stats and registers the file at path.
func attachCmd(engine *session.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		return attachDoneMsg{err: engine.SelectAttachment(path)}
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case EngineChangedMsg:
		m.refreshViewport()
		return m, nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.errText = "history unavailable: " + msg.Err.Error()
		}
		m.refreshViewport()
		return m, nil

	case sendDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		m.refreshViewport()
		return m, nil

	case attachDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		} else {
			m.errText = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.engine.State() == session.StateIdle {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey processes a key press.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Interrupt):
		if m.mode == modeAttach {
			m.mode = modeCompose
			m.resetComposer()
			return m, nil
		}
		// Snap the reveal; a no-op unless streaming.
		m.engine.Interrupt()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		if m.mode == modeCompose && m.engine.State() == session.StateIdle {
			m.mode = modeAttach
			m.input.SetValue("")
			m.input.Placeholder = "Path to file..."
			m.input.Prompt = "attach> "
		}
		return m, nil

	case key.Matches(msg, m.keys.Detach):
		m.engine.RemoveAttachment()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.handleEnter()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter submits the composer in its current mode.
func (m Model) handleEnter() (Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	if m.mode == modeAttach {
		m.mode = modeCompose
		m.resetComposer()
		if value == "" {
			return m, nil
		}
		return m, attachCmd(m.engine, value)
	}

	// Sends are accepted only while idle; attachment-only sends are
	// allowed, so an empty composer with a pending file still submits.
	if !m.engine.Ready() || m.engine.State() != session.StateIdle {
		return m, nil
	}
	_, hasAttachment := m.engine.PendingAttachment()
	if value == "" && !hasAttachment {
		return m, nil
	}

	m.input.SetValue("")
	m.errText = ""
	return m, tea.Batch(sendCmd(m.engine, value), m.spin.Tick)
}

// resetComposer restores the normal compose prompt.
func (m *Model) resetComposer() {
	m.input.SetValue("")
	m.input.Placeholder = "Type a message..."
	m.input.Prompt = "> "
}
