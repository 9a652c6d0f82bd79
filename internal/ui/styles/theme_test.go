// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the kgllm TUI.
package styles

import "testing"

func TestNewTheme_Preference(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark preference should force IsDark")
	}
	if dark.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle = %q", dark.GlamourStyle())
	}
	if dark.ChromaStyle() != "monokai" {
		t.Errorf("ChromaStyle = %q", dark.ChromaStyle())
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("light preference should clear IsDark")
	}
	if light.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle = %q", light.GlamourStyle())
	}
	if light.ChromaStyle() != "github" {
		t.Errorf("ChromaStyle = %q", light.ChromaStyle())
	}
}

func TestSetSize(t *testing.T) {
	th := NewTheme("dark")
	th.SetSize(120, 40)
	if th.Width != 120 || th.Height != 40 {
		t.Errorf("size = %dx%d", th.Width, th.Height)
	}
}
