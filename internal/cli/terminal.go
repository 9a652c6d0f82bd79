// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the kgllm CLI.
//
// Interactive terminals get colors and prompts; piped output gets
// plain text. NO_COLOR and FORCE_COLOR are honored.
package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is the fallback width when detection fails.
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping.
	MinTerminalWidth = 40
)

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the current terminal width, clamped to a
// usable range.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// GetColorProfile returns the termenv color profile to use for output.
func GetColorProfile() termenv.Profile {
	if os.Getenv("FORCE_COLOR") != "" {
		return termenv.ANSI256
	}
	if os.Getenv("NO_COLOR") != "" || !IsStdoutTTY() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
