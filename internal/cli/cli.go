// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for kgllm.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdRegister
	CmdAsk
	CmdChat
	CmdStats
	CmdGraph
	CmdUsers
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	Server  string // Override server URL from config

	// Command-specific
	Query      string
	Username   string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `kgllm - terminal client for the KGLLM knowledge-graph assistant

Kgllm talks to a KGLLM server: chat with the assistant, browse the
knowledge graph, and watch system statistics, all from the terminal.

Usage:
  kgllm                      Start TUI (default)
  kgllm login [username]     Log in and store the token
  kgllm logout               Remove the stored token
  kgllm register [username]  Create an account and log in
  kgllm ask "question"       Ask a single question
  kgllm chat                 Interactive chat (plain REPL)
  kgllm stats                Show system statistics
  kgllm graph [node-id]      Browse the knowledge graph
  kgllm users [subcommand]   Account management (admin)
  kgllm config [show|set|path] Configuration
  kgllm version              Show version information

Chat Commands (during kgllm chat):
  /help, /h           Show available commands
  /clear, /c          Clear conversation history
  /history            Show conversation history
  /quit, /q           Exit chat
  Ctrl+D              Exit chat

Global Flags:
  --server URL    Override the configured server URL
  --json          Output in JSON format where supported
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  kgllm login alice                   Log in as alice
  kgllm ask "Who wrote this module?"  One-shot question
  kgllm ask --json "Summarize"        Raw JSON response
  kgllm graph                         List graph nodes
  kgllm graph node_42                 Show a node and its neighbors
  kgllm users me                      Show your profile
  kgllm users create bob --role user  Create an account (admin)
  kgllm config set server.url http://10.0.0.5:8000
  kgllm --server http://localhost:9000 stats

Version: %s
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("kgllm version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseFrom(os.Args[1:])
}

// ParseFrom parses the given argument list. Split out for tests.
func ParseFrom(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	// No command means TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login":
		if len(remaining) > 0 {
			parsed.Username = remaining[0]
		}
		return CmdLogin, parsed

	case "logout":
		return CmdLogout, parsed

	case "register", "signup":
		if len(remaining) > 0 {
			parsed.Username = remaining[0]
		}
		return CmdRegister, parsed

	case "ask":
		parsed.Query = strings.TrimSpace(strings.Join(remaining, " "))
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "stats", "status", "s":
		return CmdStats, parsed

	case "graph", "g":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdGraph, parsed

	case "users", "user":
		return CmdUsers, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-V", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "kgllm: unknown command %q\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsed.Server = args[i]
			}
		default:
			remaining = append(remaining, args[i])
		}
	}
	return remaining, parsed
}

func parseConfigArgs(parsed *Args, remaining []string) {
	if len(remaining) == 0 {
		parsed.Subcommand = "show"
		return
	}
	parsed.Subcommand = strings.ToLower(remaining[0])
	if parsed.Subcommand == "set" {
		if len(remaining) > 1 {
			parsed.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			parsed.ConfigVal = remaining[2]
		}
	}
}
