// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the kgllm client.
package model

import (
	"sync"
	"time"
)

// Store holds the ordered sequence of chat messages. Insertion order is
// display order; entries are never reordered. The store is safe for use
// from the UI goroutine and the reveal scheduler concurrently.
type Store struct {
	mu       sync.Mutex
	messages []Message
}

// NewStore creates an empty message store.
func NewStore() *Store {
	return &Store{}
}

// Append inserts a message at the end of the log.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// AmendLast replaces the content of the last entry. It is the only
// in-place mutation the store supports and applies only while the last
// message is an assistant reply owned by an active reveal. Any other
// call is a silent no-op; the return value reports whether the
// amendment was applied.
func (s *Store) AmendLast(content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return false
	}
	last := &s.messages[len(s.messages)-1]
	if last.Role != RoleAssistant || !last.Streaming {
		return false
	}
	last.Content = content
	return true
}

// FinalizeLast releases the reveal ownership of the last entry, making
// it immutable again. No-op if the last entry is not streaming.
func (s *Store) FinalizeLast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return
	}
	s.messages[len(s.messages)-1].Streaming = false
}

// Snapshot returns a copy of the current ordered sequence for
// rendering. Callers never observe later mutations through it.
func (s *Store) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Replace swaps the entire contents of the store. Used once per session
// to hydrate from the remote history.
func (s *Store) Replace(messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]Message, len(messages))
	copy(s.messages, messages)
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Last returns the most recent message and whether one exists.
func (s *Store) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Recent returns up to n of the most recent messages, newest first.
// Used by the dashboard summary.
func (s *Store) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.messages) {
		n = len(s.messages)
	}
	out := make([]Message, 0, n)
	for i := len(s.messages) - 1; i >= len(s.messages)-n; i-- {
		out = append(out, s.messages[i])
	}
	return out
}

// UpdatedAt reports the timestamp of the most recent message, or the
// zero time for an empty store. The dashboard uses it to date the
// activity panel.
func (s *Store) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return time.Time{}
	}
	return s.messages[len(s.messages)-1].Timestamp
}
