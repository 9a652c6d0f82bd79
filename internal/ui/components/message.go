// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kgllm TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// streamCursor marks the reveal position of a streaming reply.
const streamCursor = "▌"

// RenderMessage renders one conversation message for the chat viewport.
func RenderMessage(theme *styles.Theme, msg model.Message, width int) string {
	bubbleWidth := width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	// Attachment stubs render as a one-line note, not a bubble.
	if msg.FileName != "" {
		note := msg.Content
		if msg.PreviewURL != "" {
			note += "  " + theme.Timestamp.Render(msg.PreviewURL)
		}
		return theme.AttachmentNote.Render(note)
	}

	ts := theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	if msg.Role == model.RoleUser {
		bubble := theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right, bubble, ts)
	}

	content := msg.Content
	if msg.Streaming {
		content += streamCursor
	}
	body := renderAssistantBody(theme, content, bubbleWidth)
	bubble := theme.AssistantBubble.MaxWidth(bubbleWidth).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, bubble, ts)
}

// renderAssistantBody highlights fenced code blocks and leaves prose
// alone. Unterminated fences (mid-stream) render as plain text.
func renderAssistantBody(theme *styles.Theme, content string, width int) string {
	var out []string
	rest := content
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			break
		}
		head := strings.TrimRight(rest[:start], "\n")
		tail := rest[start+3:]
		end := strings.Index(tail, "```")
		if end < 0 {
			break
		}

		lang := ""
		code := tail[:end]
		if nl := strings.IndexByte(code, '\n'); nl >= 0 {
			lang = strings.TrimSpace(code[:nl])
			code = code[nl+1:]
		}

		if head != "" {
			out = append(out, head)
		}
		block := NewCodeBlock(lang, code)
		block.MaxWidth = width
		block.Style = theme.ChromaStyle()
		out = append(out, block.Render())

		rest = strings.TrimLeft(tail[end+3:], "\n")
	}
	if rest != "" {
		out = append(out, rest)
	}
	return strings.Join(out, "\n")
}
