// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth stores the KGLLM bearer token encrypted at rest.
package auth

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewTokenStoreAt(t.TempDir())

	require.NoError(t, s.Save("tok-abc-123"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc-123", got)
	assert.Equal(t, "tok-abc-123", s.Token())
}

func TestSave_TokenNotPlaintextOnDisk(t *testing.T) {
	s := NewTokenStoreAt(t.TempDir())
	require.NoError(t, s.Save("super-secret-token"))

	data, err := os.ReadFile(s.tokenPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), EncryptedPrefix))
	assert.NotContains(t, string(data), "super-secret-token")

	info, err := os.Stat(s.tokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_NoToken(t *testing.T) {
	s := NewTokenStoreAt(t.TempDir())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Empty(t, s.Token())
}

func TestLoad_TamperedToken(t *testing.T) {
	dir := t.TempDir()
	s := NewTokenStoreAt(dir)
	require.NoError(t, s.Save("tok"))

	data, err := os.ReadFile(s.tokenPath())
	require.NoError(t, err)
	// Flip a ciphertext byte; GCM must reject it.
	data[len(data)-2] ^= 0xff
	require.NoError(t, os.WriteFile(s.tokenPath(), data, 0600))

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoad_GarbageFile(t *testing.T) {
	dir := t.TempDir()
	s := NewTokenStoreAt(dir)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(s.tokenPath(), []byte("not encrypted"), 0600))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSave_Overwrite(t *testing.T) {
	s := NewTokenStoreAt(t.TempDir())
	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestDelete_Idempotent(t *testing.T) {
	s := NewTokenStoreAt(t.TempDir())
	require.NoError(t, s.Save("tok"))

	require.NoError(t, s.Delete())
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	// Logging out twice is fine.
	require.NoError(t, s.Delete())
}
