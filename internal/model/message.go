// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the kgllm client.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "KGLLM"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single chat message. Messages are treated as
// immutable values: the store replaces entries wholesale and never hands
// out references to its backing slice.
type Message struct {
	// Identity. IDs are minted client-side for user and file messages,
	// server-side for assistant messages.
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content is the markdown body. While an assistant reply is being
	// revealed, Content holds a strict prefix of the final text.
	Content string `json:"content"`

	// Streaming marks the assistant message currently owned by an
	// active reveal. Only this message may be amended in place.
	Streaming bool `json:"-"`

	// Attachment fields, set only for file messages.
	FileType   string `json:"file_type,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// NewUserMessage creates a user message with a fresh ID and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewFileMessage creates a user message describing an attached file.
// previewURL is empty for non-image attachments.
func NewFileMessage(fileName, fileType, previewURL string) Message {
	content := "[file] " + fileName
	if previewURL != "" {
		content = "[image] " + fileName
	}
	return Message{
		ID:         "msg_" + uuid.NewString(),
		Role:       RoleUser,
		Content:    content,
		Timestamp:  time.Now(),
		FileType:   fileType,
		FileName:   fileName,
		PreviewURL: previewURL,
	}
}

// NewAssistantPlaceholder creates the empty assistant message appended
// when a send succeeds, carrying the server-assigned identity. The full
// content is revealed into it tick by tick.
func NewAssistantPlaceholder(serverID string, timestamp time.Time) Message {
	if serverID == "" {
		serverID = "msg_" + uuid.NewString()
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return Message{
		ID:        serverID,
		Role:      RoleAssistant,
		Timestamp: timestamp,
		Streaming: true,
	}
}

// timestampLayouts are the wire formats the server emits. Pydantic's
// isoformat() omits the offset for naive datetimes, so both
// offset-carrying RFC3339 and naive ISO-8601 must decode. Naive times
// are taken as UTC, which is how the server generates them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp decodes a server timestamp string in any of the
// accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON decodes a message from the server's wire format:
// timestamps may arrive with or without a timezone offset, and IDs may
// arrive as JSON numbers or strings.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		ID        json.RawMessage `json:"id"`
		Timestamp string          `json:"timestamp"`
		*alias
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.ID) > 0 {
		var s string
		if err := json.Unmarshal(aux.ID, &s); err == nil {
			m.ID = s
		} else {
			var n json.Number
			if err := json.Unmarshal(aux.ID, &n); err != nil {
				return fmt.Errorf("unrecognized message id %s", aux.ID)
			}
			m.ID = n.String()
		}
	}

	if aux.Timestamp == "" {
		m.Timestamp = time.Time{}
		return nil
	}
	ts, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return err
	}
	m.Timestamp = ts
	return nil
}

// IsFile reports whether the message carries an attachment.
func (m Message) IsFile() bool {
	return m.FileName != ""
}

// Preview returns a truncated single-line preview of the content.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
