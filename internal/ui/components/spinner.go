// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kgllm TUI.
package components

import (
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// NewSpinner creates the themed spinner shown while a request is in
// flight.
func NewSpinner(theme *styles.Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return s
}
