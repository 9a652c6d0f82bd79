// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for the kgllm CLI.
//
// Command: ask [question]
// Short:   Send one question and print the assistant's reply
//
// Examples:
//   kgllm ask "What links user_7 to project_3?"
//   kgllm ask --json "Summarize today's activity"
//
// Markdown is rendered only when stdout is a TTY so piped output stays
// machine-readable.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/Nailong-Research-Team/kgllm/internal/auth"
)

// markdownRenderer renders assistant replies for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown, returning the input unchanged when
// the renderer is unavailable or fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// HandleAsk sends a single question and prints the reply.
func HandleAsk(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: kgllm ask \"question\"")
		os.Exit(1)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}
	client := newClient(cfg, auth.NewTokenStore())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	reply, err := client.Send(ctx, args.Query)
	if err != nil {
		fatal(err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reply); err != nil {
			fatal(err)
		}
		return
	}

	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(reply.Content))
	} else {
		fmt.Println(reply.Content)
	}
}
