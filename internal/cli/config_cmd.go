// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the kgllm CLI.
//
// Command: config [show|set|path]
// Short:   Inspect and edit the kgllm configuration
//
// Examples:
//   kgllm config show
//   kgllm config path
//   kgllm config set server.url http://10.0.0.5:8000
//   kgllm config set chat.type_interval_ms 12
//   kgllm config set ui.theme dark
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Nailong-Research-Team/kgllm/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "show", "":
		cfg, err := loadConfig(args)
		if err != nil {
			fatal(err)
		}
		fmt.Println(TitleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", LabelStyle.Render("server.url:"), cfg.Server.URL)
		fmt.Printf("%s %d\n", LabelStyle.Render("server.timeout_secs:"), cfg.Server.TimeoutSecs)
		fmt.Printf("%s %d\n", LabelStyle.Render("chat.type_interval_ms:"), cfg.Chat.TypeIntervalMS)
		fmt.Printf("%s %s\n", LabelStyle.Render("chat.history_file:"), cfg.Chat.HistoryFile)
		fmt.Printf("%s %s\n", LabelStyle.Render("ui.theme:"), cfg.UI.Theme)
		fmt.Println()
		fmt.Println(DimStyle.Render("File: " + config.Path()))

	case "path":
		fmt.Println(config.Path())

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fmt.Fprintln(os.Stderr, "Usage: kgllm config set KEY VALUE")
			os.Exit(1)
		}
		cfg, err := loadConfig(args)
		if err != nil {
			fatal(err)
		}
		if err := setConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
			fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			fatal(err)
		}
		if err := cfg.Save(); err != nil {
			fatal(err)
		}
		if !args.Quiet {
			fmt.Println(SuccessStyle.Render("Saved"), args.ConfigKey, "=", args.ConfigVal)
		}

	default:
		fmt.Fprintf(os.Stderr, "kgllm: unknown config subcommand %q\n", args.Subcommand)
		os.Exit(1)
	}
}

// setConfigKey applies a dotted key assignment to the config.
func setConfigKey(cfg *config.Config, key, val string) error {
	switch key {
	case "server.url":
		cfg.Server.URL = val
	case "server.timeout_secs":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Server.TimeoutSecs = n
	case "chat.type_interval_ms":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Chat.TypeIntervalMS = n
	case "chat.history_file":
		cfg.Chat.HistoryFile = val
	case "ui.theme":
		cfg.UI.Theme = val
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
