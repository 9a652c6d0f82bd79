// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the system overview view for the kgllm TUI.
package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

func newTestModel() Model {
	m := New(styles.NewTheme("dark"), nil, model.NewStore())
	m.SetSize(100, 30)
	return m
}

func TestView_NoStatsYet(t *testing.T) {
	m := newTestModel()
	out := m.View()
	if !strings.Contains(out, "fetching statistics") {
		t.Errorf("placeholder missing:\n%s", out)
	}
	if !strings.Contains(out, "no messages yet") {
		t.Errorf("empty activity placeholder missing:\n%s", out)
	}
}

func TestUpdate_StatsArrive(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(statsMsg{stats: &model.SystemStats{CPU: 42.5, Memory: 91, Disk: 10}})

	out := m.View()
	if !strings.Contains(out, "42.5%") {
		t.Errorf("CPU value missing:\n%s", out)
	}
	if !strings.Contains(out, "91.0%") {
		t.Errorf("memory value missing:\n%s", out)
	}
}

func TestUpdate_StatsError(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(statsMsg{err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Error("stats error not surfaced")
	}

	// A later success clears the diagnostic.
	m, _ = m.Update(statsMsg{stats: &model.SystemStats{}})
	if strings.Contains(m.View(), "boom") {
		t.Error("stale error still rendered")
	}
}

func TestView_RecentActivity(t *testing.T) {
	m := newTestModel()
	m.store.Append(model.Message{
		ID:        "1",
		Role:      model.RoleUser,
		Content:   "first question",
		Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local),
	})
	out := m.View()
	if !strings.Contains(out, "first question") {
		t.Errorf("recent message missing:\n%s", out)
	}
	if !strings.Contains(out, "last message 09:30") {
		t.Errorf("activity header missing last-message time:\n%s", out)
	}
}

func TestRenderGauge_Clamps(t *testing.T) {
	m := newTestModel()
	if out := m.renderGauge("CPU", 250); !strings.Contains(out, "100.0%") {
		t.Errorf("overflow not clamped:\n%s", out)
	}
	if out := m.renderGauge("CPU", -3); !strings.Contains(out, "  0.0%") {
		t.Errorf("negative not clamped:\n%s", out)
	}
}
