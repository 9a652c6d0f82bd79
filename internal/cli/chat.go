// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the kgllm CLI.
//
// Command: chat
// Short:   Plain-terminal REPL against the KGLLM assistant
//
// This is the no-TUI chat mode: one prompt, one full reply, rendered
// as markdown when stdout is a TTY. Line editing and input history
// come from liner; the history file lives in the config directory.
//
// Interactive Commands:
//   /help, /h           Show available commands
//   /clear, /c          Clear local conversation history
//   /history            Show conversation history
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/auth"
	"github.com/Nailong-Research-Team/kgllm/internal/config"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// chatREPL bundles the line editor with its history file.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL(cfg *config.Config) *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &chatREPL{line: line, historyFile: cfg.Chat.HistoryFile}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *chatREPL) readInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *chatREPL) close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// HandleChat runs the interactive REPL.
func HandleChat(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}
	client := newClient(cfg, auth.NewTokenStore())
	store := model.NewStore()

	// Prior conversation, best effort. Chat still works if the server
	// has no history for us yet.
	if history, err := client.History(context.Background()); err == nil {
		store.Replace(history)
	} else if api.IsUnauthorized(err) {
		fatal(err)
	}

	repl := newChatREPL(cfg)
	defer repl.close()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("kgllm chat"))
		fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
		if n := store.Len(); n > 0 {
			fmt.Println(DimStyle.Render(fmt.Sprintf("Loaded %d earlier messages.", n)))
		}
		fmt.Println()
	}

	prompt := PromptStyle.Render("you> ")
	for {
		input, err := repl.readInput(prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl+D.
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if handleChatCommand(input, store) {
				return
			}
			continue
		}

		store.Append(model.NewUserMessage(input))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		reply, err := client.Send(ctx, input)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
			continue
		}

		store.Append(reply)
		if IsStdoutTTY() {
			fmt.Print(renderMarkdown(reply.Content))
		} else {
			fmt.Println(reply.Content)
		}
	}
}

// handleChatCommand processes a slash command. Returns true to exit.
func handleChatCommand(input string, store *model.Store) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/q", "/exit":
		return true

	case "/clear", "/c":
		store.Replace(nil)
		fmt.Println(DimStyle.Render("History cleared."))

	case "/history":
		msgs := store.Snapshot()
		if len(msgs) == 0 {
			fmt.Println(DimStyle.Render("No messages yet."))
			return false
		}
		for _, m := range msgs {
			who := string(m.Role)
			fmt.Printf("%s %s\n", LabelStyle.Render(who+":"), m.Content)
		}

	case "/help", "/h":
		fmt.Println(SectionStyle.Render("Commands"))
		fmt.Println("  /clear, /c     Clear local conversation history")
		fmt.Println("  /history       Show conversation history")
		fmt.Println("  /quit, /q      Exit chat")

	default:
		fmt.Println(DimStyle.Render("Unknown command. Try /help."))
	}
	return false
}
