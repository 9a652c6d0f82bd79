// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the kgllm TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND TAB STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	AttachmentNote  lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	AttachBadge      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusIdle   lipgloss.Style
	StatusBusy   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	StatsLabel  lipgloss.Style
	StatsValue  lipgloss.Style
	GaugeOK     lipgloss.Style
	GaugeWarn   lipgloss.Style
	GaugeDanger lipgloss.Style

	// ==========================================================================
	// GRAPH STYLES
	// ==========================================================================

	GraphNode     lipgloss.Style
	GraphSelected lipgloss.Style
	GraphEdge     lipgloss.Style

	// ==========================================================================
	// ERROR STYLES
	// ==========================================================================

	ErrorBox   lipgloss.Style
	ErrorTitle lipgloss.Style
}

// NewTheme creates a theme for the requested preference: "dark",
// "light", or "auto" (detect from the terminal).
func NewTheme(preference string) *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.Apply(preference)
	return t
}

// Apply switches the theme preference in place. Views holding the
// theme pointer pick the change up on their next render.
func (t *Theme) Apply(preference string) {
	switch preference {
	case "dark":
		t.IsDark = true
	case "light":
		t.IsDark = false
	default:
		t.IsDark = termenv.HasDarkBackground()
	}
	t.initStyles()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and tabs
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Underline(true).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.AttachmentNote = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true).
		MarginLeft(4)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(SurfaceBright)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.AttachBadge = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusIdle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusBusy = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Dashboard
	t.StatsLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(8)

	t.StatsValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.GaugeOK = lipgloss.NewStyle().Foreground(Emerald)
	t.GaugeWarn = lipgloss.NewStyle().Foreground(Amber)
	t.GaugeDanger = lipgloss.NewStyle().Foreground(Rose)

	// Graph
	t.GraphNode = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.GraphSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceBright)

	t.GraphEdge = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Errors
	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle returns the chroma style name matching the theme.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}
