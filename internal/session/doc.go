// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller, the single
// entry point for user-visible chat actions.
//
// The controller owns the message store and the interaction state
// machine (Idle, Sending, Streaming). A send appends the user's message
// immediately, calls the transport, appends an empty assistant
// placeholder on success, and drives the typewriter scheduler whose
// ticks amend that placeholder with ever longer prefixes of the reply.
// Transport failures are converted to a state transition plus a logged
// diagnostic; they never escape to the view. Precondition violations
// (send while busy, send with nothing to send) are silent no-ops: the
// UI prevents them with disabled controls, and the controller stays
// correct if invoked anyway.
//
// Teardown cancels any in-flight request and active reveal and revokes
// every outstanding attachment preview exactly once. It is idempotent.
package session
