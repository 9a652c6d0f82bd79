// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kgllm TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a fenced code block with syntax highlighting and
// line numbers.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	Style    string // chroma style name
}

// NewCodeBlock creates a code block with defaults.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		Style:    "monokai",
	}
}

// Render returns the styled block.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")
	highlighted := highlightCode(code, c.Language, c.Style)
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var rendered []string
	for i, line := range lines {
		rendered = append(rendered, lineNumStyle.Render(fmt.Sprintf("%d", i+1))+line)
	}
	content := strings.Join(rendered, "\n")

	var header string
	if c.Language != "" {
		header = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.SurfaceBright).
			Padding(0, 1).
			Bold(true).
			Render(c.Language) + "\n"
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.SurfaceBright).
		BorderLeft(true).
		PaddingLeft(1).
		MaxWidth(c.MaxWidth)

	return box.Render(header + content)
}

// highlightCode applies chroma terminal highlighting. The original
// text comes back unchanged when highlighting is not possible.
func highlightCode(code, language, styleName string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(sb.String(), "\n")
}
