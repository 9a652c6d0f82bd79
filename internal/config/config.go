// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for kgllm.
//
// Configuration lives in TOML at ~/.kgllm/config.toml, with sensible
// defaults, environment variable overrides, and validation. The file is
// optional; a missing file yields the defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Nailong-Research-Team/kgllm/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete kgllm configuration.
type Config struct {
	Version string `toml:"version"`

	// Server connection
	Server ServerConfig `toml:"server"`

	// Chat behavior
	Chat ChatConfig `toml:"chat"`

	// UI appearance
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains the KGLLM server connection settings.
type ServerConfig struct {
	// URL is the server base URL
	URL string `toml:"url"`
	// TimeoutSecs bounds a single request (chat generation is slow)
	TimeoutSecs int `toml:"timeout_secs"`
}

// ChatConfig contains chat behavior settings.
type ChatConfig struct {
	// TypeIntervalMS is the reveal cadence in milliseconds per
	// character. 0 falls back to the default of 24.
	TypeIntervalMS int `toml:"type_interval_ms"`
	// HistoryFile is the REPL line-editor history path (empty =
	// <config dir>/repl_history)
	HistoryFile string `toml:"history_file"`
}

// UIConfig contains appearance settings.
type UIConfig struct {
	// Theme is "auto", "dark", or "light"
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS AND LOCATIONS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 120,
		},
		Chat: ChatConfig{
			TypeIntervalMS: 24,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Dir returns the kgllm configuration directory, honoring the
// KGLLM_CONFIG_DIR override used by tests and packaging.
func Dir() string {
	if dir := os.Getenv("KGLLM_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kgllm"
	}
	return filepath.Join(home, ".kgllm")
}

// Path returns the configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// =============================================================================
// LOAD AND SAVE
// =============================================================================

// Load reads the configuration file, fills defaults, applies
// environment overrides, and validates. A missing file is not an
// error; the defaults apply.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration atomically with restrictive
// permissions.
func (c *Config) Save() error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(Path(), []byte(sb.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values with the built-in defaults so a
// sparse config file stays valid.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Server.URL == "" {
		c.Server.URL = def.Server.URL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.Chat.TypeIntervalMS == 0 {
		c.Chat.TypeIntervalMS = def.Chat.TypeIntervalMS
	}
	if c.Chat.HistoryFile == "" {
		c.Chat.HistoryFile = filepath.Join(Dir(), "repl_history")
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets environment variables take precedence over the
// file, matching how the client runs inside scripts and CI.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("KGLLM_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("KGLLM_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("KGLLM_TYPE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Chat.TypeIntervalMS = n
		}
	}
	if v := os.Getenv("KGLLM_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration and clamps out-of-range values
// rather than failing where a safe bound exists.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url: %q", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported server url scheme: %q", u.Scheme)
	}

	// Clamp rather than reject: a typo should not brick the client.
	if c.Server.TimeoutSecs < 1 {
		c.Server.TimeoutSecs = 1
	}
	if c.Server.TimeoutSecs > 600 {
		c.Server.TimeoutSecs = 600
	}
	if c.Chat.TypeIntervalMS < 1 {
		c.Chat.TypeIntervalMS = 1
	}
	if c.Chat.TypeIntervalMS > 1000 {
		c.Chat.TypeIntervalMS = 1000
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme: %q (want auto, dark, or light)", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// TypeInterval returns the reveal cadence as a duration.
func (c *Config) TypeInterval() time.Duration {
	return time.Duration(c.Chat.TypeIntervalMS) * time.Millisecond
}
