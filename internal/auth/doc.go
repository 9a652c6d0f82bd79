// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth stores the KGLLM bearer token encrypted at rest.
//
// The token is sealed with AES-256-GCM under a key derived via
// PBKDF2-SHA-256 from a per-install random secret. Secret, salt, and
// sealed token live under the config directory with 0600 permissions,
// so a casual copy of the token file alone is useless.
package auth
