// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kgllm TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Nailong-Research-Team/kgllm/internal/session"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint shown on the right side of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the one-line bar at the bottom of every view.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// stateLabel maps the session state to its display form.
func (b StatusBar) stateLabel(state session.State) string {
	switch state {
	case session.StateIdle:
		return b.theme.StatusIdle.Render("● idle")
	case session.StateSending:
		return b.theme.StatusBusy.Render("◐ sending")
	case session.StateStreaming:
		return b.theme.StatusBusy.Render("◑ streaming")
	default:
		return "?"
	}
}

// Render draws the bar at the given width.
func (b StatusBar) Render(width int, state session.State, server string, shortcuts []Shortcut) string {
	left := b.stateLabel(state) + "  " + b.theme.ShortcutDesc.Render(server)

	var hints []string
	for _, s := range shortcuts {
		hints = append(hints, b.theme.ShortcutKey.Render(s.Key)+" "+b.theme.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
		// Drop hints first when the terminal is narrow.
		if lipgloss.Width(left)+2 >= width {
			right = ""
		}
	}

	line := left + strings.Repeat(" ", gap) + right
	return b.theme.StatusBar.Render(truncateLine(line, width))
}

// truncateLine caps a styled line at the display width.
func truncateLine(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
