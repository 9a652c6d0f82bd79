// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the kgllm client.
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_ReplacesExisting(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")

	if err := os.WriteFile(path, []byte("old content"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("new content"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "new content" {
		t.Errorf("Content mismatch: got %q", string(content))
	}
}

func TestAtomicWriteFileWithDir_Permissions(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "secrets", "token")

	if err := AtomicWriteFileWithDir(path, []byte("s3cret"), 0600, 0700); err != nil {
		t.Fatalf("AtomicWriteFileWithDir failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("File perm = %o, want 0600", info.Mode().Perm())
	}
	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat dir failed: %v", err)
	}
	if dirInfo.Mode().Perm() != 0700 {
		t.Errorf("Dir perm = %o, want 0700", dirInfo.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max no ellipsis", "hello", 2, "he"},
		{"multibyte safe", "日本語のテキスト", 5, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.input, tt.maxRunes); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestTruncateWidth_CJK(t *testing.T) {
	// Each CJK char is 2 columns wide.
	got := TruncateWidth("日本語", 4)
	if StringWidth(got) > 4 {
		t.Errorf("TruncateWidth result too wide: %q (%d cols)", got, StringWidth(got))
	}

	if got := TruncateWidth("abc", 10); got != "abc" {
		t.Errorf("TruncateWidth short string changed: %q", got)
	}
}

func TestStringWidth(t *testing.T) {
	if w := StringWidth("abc"); w != 3 {
		t.Errorf("StringWidth(abc) = %d, want 3", w)
	}
	if w := StringWidth("日本"); w != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", w)
	}
}

func TestNormalizeInput(t *testing.T) {
	// e + combining acute (U+0065 U+0301) normalizes to U+00E9.
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"
	if got := NormalizeInput(decomposed); got != composed {
		t.Errorf("NormalizeInput = %q, want %q", got, composed)
	}

	if got := NormalizeInput("  hello  "); got != "hello" {
		t.Errorf("NormalizeInput did not trim: %q", got)
	}
	if got := NormalizeInput("   "); got != "" {
		t.Errorf("NormalizeInput whitespace-only = %q, want empty", got)
	}
}
