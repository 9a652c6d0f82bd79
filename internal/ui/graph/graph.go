// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph provides the knowledge-graph browser view for the
// kgllm TUI: a navigable node list, with a focus mode showing one
// node's outgoing relations.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// loadedMsg carries a graph fetch result.
type loadedMsg struct {
	graph *model.Graph
	err   error
}

// Model is the Bubble Tea model for the graph view.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	graph   *model.Graph
	errText string

	cursor  int
	focused string // node ID in focus mode, "" for the list

	width  int
	height int
}

// New creates the graph view.
func New(theme *styles.Theme, client *api.Client) Model {
	return Model{theme: theme, client: client}
}

// SetSize lays the view out for the given area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init fetches the graph.
func (m Model) Init() tea.Cmd {
	return loadCmd(m.client)
}

func loadCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		g, err := client.Graph(ctx)
		return loadedMsg{graph: g, err: err}
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.graph = msg.graph
		if m.cursor >= len(m.graph.Nodes) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.graph == nil {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.focused == "" && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.focused == "" && m.cursor < len(m.graph.Nodes)-1 {
			m.cursor++
		}
	case "enter":
		if m.focused == "" && len(m.graph.Nodes) > 0 {
			m.focused = m.graph.Nodes[m.cursor].ID
		}
	case "backspace", "esc":
		m.focused = ""
	case "r":
		return m, loadCmd(m.client)
	}
	return m, nil
}

// View renders the graph browser.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Knowledge Graph"))
	b.WriteString("\n\n")

	switch {
	case m.errText != "":
		b.WriteString(m.theme.ErrorTitle.Render("graph unavailable: ") + m.errText + "\n")

	case m.graph == nil:
		b.WriteString(m.theme.ThinkingText.Render("fetching graph...") + "\n")

	case m.focused != "":
		m.renderFocus(&b)

	default:
		m.renderList(&b)
	}
	return b.String()
}

// renderList draws the scrollable node list.
func (m Model) renderList(b *strings.Builder) {
	if len(m.graph.Nodes) == 0 {
		b.WriteString(m.theme.ThinkingText.Render("the graph is empty") + "\n")
		return
	}

	b.WriteString(m.theme.GraphEdge.Render(
		fmt.Sprintf("%d nodes, %d edges", len(m.graph.Nodes), len(m.graph.Edges))))
	b.WriteString("\n\n")

	// Window the list around the cursor so long graphs stay on screen.
	visible := m.height - 8
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.graph.Nodes) {
		end = len(m.graph.Nodes)
	}

	for i := start; i < end; i++ {
		node := m.graph.Nodes[i]
		line := fmt.Sprintf("%-24s %s", node.ID, node.Label)
		if i == m.cursor {
			b.WriteString(m.theme.GraphSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.GraphNode.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + m.theme.GraphEdge.Render("enter focus · r reload"))
}

// renderFocus draws one node and its outgoing relations.
func (m Model) renderFocus(b *strings.Builder) {
	node, ok := m.graph.NodeByID(m.focused)
	if !ok {
		b.WriteString(m.theme.ErrorTitle.Render("node vanished from the graph") + "\n")
		return
	}

	b.WriteString(m.theme.GraphSelected.Render(node.Label))
	b.WriteString("  " + m.theme.GraphEdge.Render(node.ID) + "\n\n")

	edges := m.graph.Neighbors(node.ID)
	if len(edges) == 0 {
		b.WriteString(m.theme.ThinkingText.Render("no outgoing relations") + "\n")
	}
	for _, e := range edges {
		target := e.Target
		if t, ok := m.graph.NodeByID(e.Target); ok {
			target = t.Label
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.theme.GraphEdge.Render("-["+e.Label+"]->"),
			m.theme.GraphNode.Render(target)))
	}
	b.WriteString("\n" + m.theme.GraphEdge.Render("esc back"))
}
