// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the kgllm TUI.
package chat

import (
	"strings"

	"github.com/Nailong-Research-Team/kgllm/internal/session"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/components"
)

// refreshViewport re-renders the conversation into the viewport and
// follows the tail.
func (m *Model) refreshViewport() {
	if !m.sized {
		return
	}
	msgs := m.engine.Snapshot()
	var parts []string
	for _, msg := range msgs {
		parts = append(parts, components.RenderMessage(m.theme, msg, m.viewport.Width))
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
	m.viewport.GotoBottom()
}

// View renders the chat screen.
func (m Model) View() string {
	if !m.sized {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Diagnostic line, attachment badge, or spinner.
	switch {
	case m.errText != "":
		b.WriteString(m.theme.ErrorTitle.Render("! ") + m.theme.ErrorBox.UnsetBorderStyle().Render(m.errText))
	case m.engine.State() != session.StateIdle:
		b.WriteString(m.spin.View() + m.theme.ThinkingText.Render(m.engine.State().String()+"..."))
	default:
		if pending, ok := m.engine.PendingAttachment(); ok {
			b.WriteString(m.theme.AttachBadge.Render("📎 " + pending.Name))
		}
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")

	shortcuts := []components.Shortcut{
		{Key: "enter", Desc: "send"},
		{Key: "tab", Desc: "attach"},
		{Key: "esc", Desc: "interrupt"},
		{Key: "ctrl+t", Desc: "next view"},
		{Key: "ctrl+c", Desc: "quit"},
	}
	b.WriteString(m.statusBar.Render(m.width, m.engine.State(), m.serverURL, shortcuts))
	return b.String()
}
