// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
package session

// State is the interaction state of the chat session. The composer
// accepts new input only while Idle.
type State int

const (
	// StateIdle: input enabled, no pending network or reveal work.
	StateIdle State = iota

	// StateSending: a request is in flight; no reveal timer active.
	StateSending

	// StateStreaming: the reply is known in full but being revealed
	// incrementally.
	StateStreaming
)

// String returns the state name for status displays and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}
