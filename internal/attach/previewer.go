// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach manages the pending file attachment of a chat session.
package attach

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Previewer is the host capability for transient preview resources:
// create a revocable reference to a locally selected file, and revoke
// it when its owner is done.
type Previewer interface {
	// Create produces a preview URL for the file at src. The caller
	// owns the returned URL and must eventually pass it to Revoke.
	Create(name, src string) (string, error)

	// Revoke releases the resource behind a previously created URL.
	Revoke(url string) error
}

// FilePreviewer implements Previewer by copying files into a private
// session directory. The returned URL is the copy's path, so anything
// that can open a file can render the preview.
type FilePreviewer struct {
	dir string
}

// NewFilePreviewer creates a previewer rooted at a fresh temporary
// directory.
func NewFilePreviewer() (*FilePreviewer, error) {
	dir, err := os.MkdirTemp("", "kgllm-preview-")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &FilePreviewer{dir: dir}, nil
}

// Create copies the file at src into the session directory and returns
// the copy's path.
func (p *FilePreviewer) Create(name, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer in.Close()

	// Unique prefix keeps repeated selections of the same file apart.
	dst := filepath.Join(p.dir, uuid.NewString()[:8]+"-"+filepath.Base(name))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to copy attachment: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to close preview file: %w", err)
	}
	return dst, nil
}

// Revoke removes the preview copy. Revoking a URL that is already gone
// is not an error; the exactly-once guarantee lives in the Manager.
func (p *FilePreviewer) Revoke(url string) error {
	if err := os.Remove(url); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview file: %w", err)
	}
	return nil
}

// Close removes the session directory and everything left in it.
func (p *FilePreviewer) Close() error {
	return os.RemoveAll(p.dir)
}
