// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the kgllm client.
//
// This package contains common helper functions used throughout the
// application for string handling, input normalization, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - NormalizeInput: NFC normalization of user-typed text
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// Diagnostics:
//   - OpenLogFile: append-only log sink under the config directory
package util
