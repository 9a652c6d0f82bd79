// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth stores the KGLLM bearer token encrypted at rest.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/Nailong-Research-Team/kgllm/internal/config"
	"github.com/Nailong-Research-Team/kgllm/internal/util"
)

// EncryptedPrefix marks a sealed value (format: ENC:base64(nonce|ct|tag)).
const EncryptedPrefix = "ENC:"

const (
	keySize   = 32 // AES-256
	saltSize  = 32
	nonceSize = 12 // AES-GCM standard nonce

	// OWASP-recommended floor for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrNoToken indicates no stored token; the user must log in.
	ErrNoToken = errors.New("no stored token: run 'kgllm login'")
	// ErrCorrupt indicates the token file failed authentication.
	ErrCorrupt = errors.New("stored token is corrupt or tampered with")
)

// zeroBytes clears sensitive material so it cannot surface in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// TokenStore persists one bearer token under a directory.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a store rooted at the kgllm config directory.
func NewTokenStore() *TokenStore {
	return NewTokenStoreAt(config.Dir())
}

// NewTokenStoreAt creates a store rooted at dir. Tests point this at a
// temporary directory.
func NewTokenStoreAt(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

func (s *TokenStore) tokenPath() string { return filepath.Join(s.dir, "token") }
func (s *TokenStore) keyPath() string   { return filepath.Join(s.dir, "token.key") }
func (s *TokenStore) saltPath() string  { return filepath.Join(s.dir, "token.salt") }

// Save seals the token and writes it atomically.
func (s *TokenStore) Save(token string) error {
	key, err := s.ensureKey()
	if err != nil {
		return err
	}
	defer zeroBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	data := EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed)
	if err := util.AtomicWriteFileWithDir(s.tokenPath(), []byte(data), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Load opens and unseals the stored token. Returns ErrNoToken when the
// user has never logged in.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.tokenPath())
	if os.IsNotExist(err) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if !strings.HasPrefix(raw, EncryptedPrefix) {
		return "", ErrCorrupt
	}
	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, EncryptedPrefix))
	if err != nil || len(sealed) < nonceSize {
		return "", ErrCorrupt
	}

	key, err := s.ensureKey()
	if err != nil {
		return "", err
	}
	defer zeroBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plain, err := aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", ErrCorrupt
	}
	return string(plain), nil
}

// Token returns the stored token or "" when absent. Convenience for
// wiring into the API client's token source.
func (s *TokenStore) Token() string {
	tok, err := s.Load()
	if err != nil {
		return ""
	}
	return tok
}

// Delete removes the stored token. Missing files are fine; logout is
// idempotent.
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// ensureKey loads the per-install secret and salt, creating them on
// first use, and derives the sealing key.
func (s *TokenStore) ensureKey() ([]byte, error) {
	secret, err := s.ensureRandomFile(s.keyPath(), keySize)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(secret)

	salt, err := s.ensureRandomFile(s.saltPath(), saltSize)
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New), nil
}

func (s *TokenStore) ensureRandomFile(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) == size {
		return data, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	data = make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, data); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
