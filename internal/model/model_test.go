// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the kgllm client.
package model

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want user", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want hello", msg.Content)
	}
	if msg.ID == "" {
		t.Error("ID should be generated")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("Duplicate ID: %s", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestNewFileMessage(t *testing.T) {
	img := NewFileMessage("photo.png", "image/png", "/tmp/preview/photo.png")
	if img.Content != "[image] photo.png" {
		t.Errorf("image content = %q", img.Content)
	}
	if img.PreviewURL == "" {
		t.Error("image message should carry preview URL")
	}
	if !img.IsFile() {
		t.Error("IsFile should be true")
	}

	doc := NewFileMessage("notes.pdf", "application/pdf", "")
	if doc.Content != "[file] notes.pdf" {
		t.Errorf("file content = %q", doc.Content)
	}
	if doc.PreviewURL != "" {
		t.Error("non-image message should have no preview URL")
	}
}

func TestNewAssistantPlaceholder(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msg := NewAssistantPlaceholder("42", ts)

	if msg.ID != "42" {
		t.Errorf("ID = %q, want server-assigned 42", msg.ID)
	}
	if msg.Role != RoleAssistant {
		t.Errorf("Role = %v, want assistant", msg.Role)
	}
	if msg.Content != "" {
		t.Errorf("placeholder content = %q, want empty", msg.Content)
	}
	if !msg.Streaming {
		t.Error("placeholder should be streaming")
	}
	if !msg.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", msg.Timestamp, ts)
	}

	// Missing server identity falls back to client-minted values.
	fallback := NewAssistantPlaceholder("", time.Time{})
	if fallback.ID == "" || fallback.Timestamp.IsZero() {
		t.Error("fallback placeholder should mint ID and timestamp")
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("hello world, this is a long message")
	if got := msg.Preview(8); got != "hello..." {
		t.Errorf("Preview = %q", got)
	}
	if got := msg.Preview(100); got != msg.Content {
		t.Errorf("short Preview changed content: %q", got)
	}
}

func TestMessageUnmarshal_ServerWireFormat(t *testing.T) {
	// The backend emits naive ISO-8601 timestamps (no offset) and
	// numeric IDs; both must decode.
	payload := `{"id": 1, "content": "你好，我需要帮助。", "role": "user", "timestamp": "2024-01-01T12:00:00"}`

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.ID != "1" {
		t.Errorf("ID = %q, want 1", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %v", msg.Role)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", msg.Timestamp, want)
	}
}

func TestMessageUnmarshal_TimestampLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"naive", `"2024-01-01T12:00:00"`, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"naive with micros", `"2024-01-01T12:00:00.123456"`, time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.UTC)},
		{"naive with space", `"2024-01-01 12:00:00"`, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"utc offset", `"2024-01-01T12:00:00Z"`, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"numeric offset", `"2024-01-01T12:00:00+02:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			payload := `{"id": "x", "role": "assistant", "content": "", "timestamp": ` + tt.raw + `}`
			if err := json.Unmarshal([]byte(payload), &msg); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !msg.Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", msg.Timestamp, tt.want)
			}
		})
	}
}

func TestMessageUnmarshal_MissingAndBadTimestamp(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"id": "x", "role": "user", "content": "hi"}`), &msg); err != nil {
		t.Fatalf("missing timestamp should decode: %v", err)
	}
	if !msg.Timestamp.IsZero() {
		t.Errorf("Timestamp = %v, want zero", msg.Timestamp)
	}

	err := json.Unmarshal([]byte(`{"id": "x", "timestamp": "yesterday"}`), &msg)
	if err == nil {
		t.Error("garbage timestamp should fail to decode")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	orig := NewUserMessage("hello")
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ID != orig.ID || decoded.Content != orig.Content {
		t.Errorf("round trip changed identity: %+v", decoded)
	}
	if !decoded.Timestamp.Equal(orig.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, orig.Timestamp)
	}
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStoreAppendOrder(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("one"))
	s.Append(NewUserMessage("two"))
	s.Append(NewUserMessage("three"))

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Len = %d, want 3", len(snap))
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if snap[i].Content != w {
			t.Errorf("snap[%d] = %q, want %q", i, snap[i].Content, w)
		}
	}
}

func TestStoreAmendLast_EmptyStore(t *testing.T) {
	s := NewStore()
	if s.AmendLast("anything") {
		t.Error("AmendLast on empty store should be a no-op")
	}
	if s.Len() != 0 {
		t.Error("store should remain empty")
	}
}

func TestStoreAmendLast_NonAssistantTail(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("hi"))
	if s.AmendLast("rewritten") {
		t.Error("AmendLast should refuse a user-message tail")
	}
	last, _ := s.Last()
	if last.Content != "hi" {
		t.Errorf("tail mutated: %q", last.Content)
	}
}

func TestStoreAmendLast_FinalizedTail(t *testing.T) {
	s := NewStore()
	s.Append(NewAssistantPlaceholder("1", time.Now()))
	s.AmendLast("done")
	s.FinalizeLast()

	if s.AmendLast("late write") {
		t.Error("AmendLast should refuse a finalized tail")
	}
	last, _ := s.Last()
	if last.Content != "done" {
		t.Errorf("finalized tail mutated: %q", last.Content)
	}
}

func TestStoreAmendLast_IncreasingPrefixes(t *testing.T) {
	full := "hi there"
	s := NewStore()
	s.Append(NewAssistantPlaceholder("42", time.Now()))

	runes := []rune(full)
	for i := 1; i <= len(runes); i++ {
		if !s.AmendLast(string(runes[:i])) {
			t.Fatalf("AmendLast failed at prefix %d", i)
		}
		last, _ := s.Last()
		if last.Content != string(runes[:i]) {
			t.Errorf("prefix %d: content = %q", i, last.Content)
		}
	}

	last, _ := s.Last()
	if last.Content != full {
		t.Errorf("final content = %q, want %q", last.Content, full)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("original"))

	snap := s.Snapshot()
	snap[0].Content = "mutated"

	fresh := s.Snapshot()
	if fresh[0].Content != "original" {
		t.Error("snapshot mutation leaked into store")
	}
}

func TestStoreReplace(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("local"))

	history := []Message{
		{ID: "h1", Role: RoleUser, Content: "old question"},
		{ID: "h2", Role: RoleAssistant, Content: "old answer"},
	}
	s.Replace(history)

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Len = %d, want 2", len(snap))
	}
	if snap[0].ID != "h1" || snap[1].ID != "h2" {
		t.Error("Replace did not install history in order")
	}
}

func TestStoreRecent(t *testing.T) {
	s := NewStore()
	for _, c := range []string{"a", "b", "c", "d"} {
		s.Append(NewUserMessage(c))
	}

	recent := s.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) len = %d", len(recent))
	}
	if recent[0].Content != "d" || recent[1].Content != "c" {
		t.Errorf("Recent order wrong: %q, %q", recent[0].Content, recent[1].Content)
	}

	if got := s.Recent(10); len(got) != 4 {
		t.Errorf("Recent(10) len = %d, want 4", len(got))
	}
}

func TestStoreUpdatedAt(t *testing.T) {
	s := NewStore()
	if !s.UpdatedAt().IsZero() {
		t.Error("empty store should report zero time")
	}

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Append(Message{ID: "1", Role: RoleUser, Content: "hi", Timestamp: ts})
	if !s.UpdatedAt().Equal(ts) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt(), ts)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	s.Append(NewAssistantPlaceholder("1", time.Now()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AmendLast("partial")
				s.Snapshot()
				s.Len()
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// GRAPH TESTS
// =============================================================================

func TestGraphNeighbors(t *testing.T) {
	g := Graph{
		Nodes: []GraphNode{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}},
		Edges: []GraphEdge{
			{Source: "a", Target: "b", Label: "r1"},
			{Source: "a", Target: "c", Label: "r2"},
			{Source: "b", Target: "c", Label: "r3"},
		},
	}

	edges := g.Neighbors("a")
	if len(edges) != 2 {
		t.Fatalf("Neighbors(a) = %d edges, want 2", len(edges))
	}
	if edges[0].Target != "b" || edges[1].Target != "c" {
		t.Errorf("Neighbors order wrong: %+v", edges)
	}

	if got := g.Neighbors("c"); len(got) != 0 {
		t.Errorf("Neighbors(c) = %d edges, want 0", len(got))
	}

	if _, ok := g.NodeByID("b"); !ok {
		t.Error("NodeByID(b) not found")
	}
	if _, ok := g.NodeByID("zzz"); ok {
		t.Error("NodeByID(zzz) should not be found")
	}
}
