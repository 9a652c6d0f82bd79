// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the kgllm client.
package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// OpenLogFile opens (creating if needed) the append-only diagnostic log
// under dir and returns a logger writing to it. The TUI owns stdout, so
// diagnostics must never be printed there.
func OpenLogFile(dir, name string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags|log.Lmsgprefix), f, nil
}
