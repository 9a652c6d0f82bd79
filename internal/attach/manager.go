// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach manages the pending file attachment of a chat session.
package attach

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// ErrNoAttachment is returned by Materialize when nothing is pending.
var ErrNoAttachment = errors.New("no pending attachment")

// Pending describes the currently selected attachment for display.
type Pending struct {
	Path       string
	Name       string
	MIME       string
	PreviewURL string // set only for images
}

// IsImage reports whether the pending file renders as an image.
func (p Pending) IsImage() bool {
	return strings.HasPrefix(p.MIME, "image/")
}

// Manager owns the pending-attachment lifecycle. All methods are safe
// for concurrent use.
type Manager struct {
	mu        sync.Mutex
	previewer Previewer
	pending   *Pending

	// issued tracks preview URLs whose ownership has transferred to a
	// store entry but which have not been revoked yet. Each URL is
	// revoked at most once through this registry.
	issued map[string]bool
}

// NewManager creates a manager backed by the given previewer.
func NewManager(p Previewer) *Manager {
	return &Manager{
		previewer: p,
		issued:    make(map[string]bool),
	}
}

// Select stores the file at path as the pending attachment, replacing
// any previous selection. The replaced selection's preview resource, if
// it was never materialized, is revoked first so it cannot leak.
func (m *Manager) Select(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("attachment is a directory: %s", path)
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	// Strip parameters such as "; charset=utf-8".
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	var previewURL string
	if strings.HasPrefix(mimeType, "image/") {
		previewURL, err = m.previewer.Create(name, path)
		if err != nil {
			return fmt.Errorf("failed to create preview: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropPendingLocked()
	m.pending = &Pending{
		Path:       path,
		Name:       name,
		MIME:       mimeType,
		PreviewURL: previewURL,
	}
	return nil
}

// Pending returns the current selection descriptor for display.
func (m *Manager) Pending() (Pending, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return Pending{}, false
	}
	return *m.pending, true
}

// HasPending reports whether an attachment is selected.
func (m *Manager) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Materialize derives the chat message for the pending attachment and
// clears the selection. For images, ownership of the preview URL
// transfers to the returned message; the manager keeps it registered so
// a later Revoke releases it exactly once. Returns ErrNoAttachment if
// nothing is pending.
func (m *Manager) Materialize() (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return model.Message{}, ErrNoAttachment
	}

	p := *m.pending
	m.pending = nil
	if p.PreviewURL != "" {
		m.issued[p.PreviewURL] = true
	}
	return model.NewFileMessage(p.Name, p.MIME, p.PreviewURL), nil
}

// Clear discards the pending selection without creating a message,
// revoking its preview resource if one was created.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropPendingLocked()
}

// Revoke releases a materialized preview URL. It reports whether this
// call performed the revocation; a second call for the same URL is a
// no-op returning false.
func (m *Manager) Revoke(url string) bool {
	m.mu.Lock()
	if !m.issued[url] {
		m.mu.Unlock()
		return false
	}
	delete(m.issued, url)
	m.mu.Unlock()

	m.previewer.Revoke(url)
	return true
}

// RevokeAll releases every outstanding materialized preview URL and
// returns how many were revoked. Used at session teardown; calling it
// again is a no-op.
func (m *Manager) RevokeAll() int {
	m.mu.Lock()
	urls := make([]string, 0, len(m.issued))
	for url := range m.issued {
		urls = append(urls, url)
	}
	m.issued = make(map[string]bool)
	m.mu.Unlock()

	for _, url := range urls {
		m.previewer.Revoke(url)
	}
	return len(urls)
}

// Close clears any pending selection and revokes all outstanding
// previews. Safe to call more than once.
func (m *Manager) Close() {
	m.Clear()
	m.RevokeAll()
}

// dropPendingLocked revokes the un-materialized preview of the current
// selection, if any, and forgets it. Caller holds m.mu.
func (m *Manager) dropPendingLocked() {
	if m.pending == nil {
		return
	}
	if m.pending.PreviewURL != "" {
		m.previewer.Revoke(m.pending.PreviewURL)
	}
	m.pending = nil
}
