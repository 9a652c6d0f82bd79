// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph provides the knowledge-graph browser view for the kgllm TUI.
package graph

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

func testGraph() *model.Graph {
	return &model.Graph{
		Nodes: []model.GraphNode{
			{ID: "n1", Label: "Alpha"},
			{ID: "n2", Label: "Beta"},
			{ID: "n3", Label: "Gamma"},
		},
		Edges: []model.GraphEdge{
			{Source: "n1", Target: "n2", Label: "knows"},
			{Source: "n2", Target: "n3", Label: "owns"},
		},
	}
}

func newTestModel() Model {
	m := New(styles.NewTheme("dark"), nil)
	m.SetSize(100, 30)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Loading(t *testing.T) {
	m := newTestModel()
	if !strings.Contains(m.View(), "fetching graph") {
		t.Error("loading placeholder missing")
	}
}

func TestUpdate_LoadError(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedMsg{err: errors.New("timeout")})
	if !strings.Contains(m.View(), "timeout") {
		t.Error("error not surfaced")
	}
}

func TestNavigation_CursorMoves(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedMsg{graph: testGraph()})

	m, _ = m.Update(key("down"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("down"))
	if m.cursor != 2 {
		t.Errorf("cursor clamps at last node, got %d", m.cursor)
	}
	m, _ = m.Update(key("up"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestFocus_EnterAndBack(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedMsg{graph: testGraph()})

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	if m.focused != "n2" {
		t.Fatalf("focused = %q, want n2", m.focused)
	}

	out := m.View()
	if !strings.Contains(out, "Beta") {
		t.Errorf("focused node label missing:\n%s", out)
	}
	if !strings.Contains(out, "owns") {
		t.Errorf("outgoing relation missing:\n%s", out)
	}
	// Gamma is n2's target.
	if !strings.Contains(out, "Gamma") {
		t.Errorf("target label missing:\n%s", out)
	}

	m, _ = m.Update(key("esc"))
	if m.focused != "" {
		t.Error("esc should return to the list")
	}
}

func TestView_ListShowsCounts(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedMsg{graph: testGraph()})
	out := m.View()
	if !strings.Contains(out, "3 nodes, 2 edges") {
		t.Errorf("counts missing:\n%s", out)
	}
	if !strings.Contains(out, "Alpha") {
		t.Errorf("node list missing:\n%s", out)
	}
}
