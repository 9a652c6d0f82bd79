// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for kgllm CLI command handlers.
package cli

import (
	"fmt"
	"os"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/auth"
	"github.com/Nailong-Research-Team/kgllm/internal/config"
)

// loadConfig loads the configuration and applies CLI overrides.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newClient builds an API client backed by the stored token.
func newClient(cfg *config.Config, store *auth.TokenStore) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Timeout(),
	}, store.Token)
}

// fatal prints an error and exits. Unauthorized errors get a login hint.
func fatal(err error) {
	if api.IsUnauthorized(err) {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		fmt.Fprintln(os.Stderr, DimStyle.Render("Run 'kgllm login' to authenticate."))
	} else {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
	}
	os.Exit(1)
}
