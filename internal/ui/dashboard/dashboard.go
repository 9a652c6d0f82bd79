// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the system overview view for the kgllm
// TUI: resource gauges refreshed on an interval plus the most recent
// conversation activity.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// refreshInterval is how often the stats gauges update.
const refreshInterval = 5 * time.Second

// recentCount is how many conversation messages the activity panel shows.
const recentCount = 5

// statsMsg carries a stats fetch result.
type statsMsg struct {
	stats *model.SystemStats
	err   error
}

// tickMsg triggers the next refresh.
type tickMsg time.Time

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	store  *model.Store

	stats   *model.SystemStats
	errText string

	width  int
	height int
}

// New creates the dashboard view. The store is the live conversation
// store shared with the chat view.
func New(theme *styles.Theme, client *api.Client, store *model.Store) Model {
	return Model{theme: theme, client: client, store: store}
}

// SetSize lays the view out for the given area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the first fetch and the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchStatsCmd(m.client), tickCmd())
}

func fetchStatsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stats, err := client.Stats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case statsMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.stats = msg.stats
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchStatsCmd(m.client), tickCmd())
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("System Overview"))
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(m.theme.ErrorTitle.Render("stats unavailable: ") + m.errText + "\n")
	} else if m.stats == nil {
		b.WriteString(m.theme.ThinkingText.Render("fetching statistics...") + "\n")
	} else {
		b.WriteString(m.renderGauge("CPU", m.stats.CPU))
		b.WriteString(m.renderGauge("Memory", m.stats.Memory))
		b.WriteString(m.renderGauge("Disk", m.stats.Disk))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HeaderTitle.Render("Recent Activity"))
	if updated := m.store.UpdatedAt(); !updated.IsZero() {
		b.WriteString(" " + m.theme.Timestamp.Render("last message "+updated.Format("15:04")))
	}
	b.WriteString("\n\n")

	recent := m.store.Recent(recentCount)
	if len(recent) == 0 {
		b.WriteString(m.theme.ThinkingText.Render("no messages yet") + "\n")
	}
	for _, msg := range recent {
		b.WriteString(m.renderActivityLine(msg))
	}
	return b.String()
}

// renderGauge draws one labeled resource bar.
func (m Model) renderGauge(label string, pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	width := m.width - 24
	if width < 10 {
		width = 10
	}
	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := m.theme.GaugeOK
	switch {
	case pct >= 85:
		style = m.theme.GaugeDanger
	case pct >= 60:
		style = m.theme.GaugeWarn
	}

	return fmt.Sprintf("%s %s %s\n",
		m.theme.StatsLabel.Render(label),
		style.Render(bar),
		m.theme.StatsValue.Render(fmt.Sprintf("%5.1f%%", pct)))
}

// renderActivityLine draws one recent-message summary line.
func (m Model) renderActivityLine(msg model.Message) string {
	width := m.width - 20
	if width < 20 {
		width = 20
	}
	content := runewidth.Truncate(msg.Content, width, "…")
	return fmt.Sprintf("%s %s %s\n",
		m.theme.Timestamp.Render(msg.Timestamp.Format("15:04")),
		m.theme.StatsLabel.Render(string(msg.Role)),
		content)
}
