// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Nailong-Research-Team/kgllm/internal/attach"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/typewriter"
	"github.com/Nailong-Research-Team/kgllm/internal/util"
)

// DefaultSendTimeout bounds a single transport call. Expiry behaves
// like any other transport failure: back to Idle.
const DefaultSendTimeout = 120 * time.Second

// Transport is the slice of the server API the session engine needs.
type Transport interface {
	// History returns the prior messages of the session, oldest first.
	History(ctx context.Context) ([]model.Message, error)

	// Send submits the user's text and returns the complete assistant
	// reply with server-assigned ID and timestamp.
	Send(ctx context.Context, text string) (model.Message, error)
}

// Controller orchestrates the message store, the attachment manager,
// the transport, and the typewriter scheduler. Methods are safe for
// concurrent use; the view layer only ever reads snapshots.
type Controller struct {
	mu          sync.Mutex
	state       State
	closed      bool
	loaded      bool
	fullReply   string // complete text of the active reveal
	sendCancel  context.CancelFunc
	store       *model.Store
	attachments *attach.Manager
	transport   Transport
	scheduler   *typewriter.Scheduler
	timeout     time.Duration
	logger      *log.Logger
	notify      func()
	baseCtx     context.Context
	baseCancel  context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler substitutes the reveal scheduler. Tests inject one
// driven by a manual clock.
func WithScheduler(s *typewriter.Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithNotify registers a change callback invoked after every store or
// state mutation. The TUI uses it to request a re-render; it must not
// call back into the Controller.
func WithNotify(fn func()) Option {
	return func(c *Controller) { c.notify = fn }
}

// WithLogger routes diagnostics to the given logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSendTimeout overrides the per-send transport timeout.
func WithSendTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewController creates an idle controller with an empty store.
func NewController(transport Transport, attachments *attach.Manager, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		state:       StateIdle,
		store:       model.NewStore(),
		attachments: attachments,
		transport:   transport,
		scheduler:   typewriter.NewScheduler(),
		timeout:     DefaultSendTimeout,
		baseCtx:     ctx,
		baseCancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the ordered message sequence for rendering.
func (c *Controller) Snapshot() []model.Message {
	return c.store.Snapshot()
}

// Store exposes the message store for read-only consumers such as the
// dashboard summary.
func (c *Controller) Store() *model.Store {
	return c.store
}

// Ready reports whether the initial history load has settled. The UI
// keeps the composer disabled until then.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// PendingAttachment returns the current selection for display.
func (c *Controller) PendingAttachment() (attach.Pending, bool) {
	return c.attachments.Pending()
}

// =============================================================================
// HISTORY
// =============================================================================

// LoadHistory hydrates the store from the remote history, replacing its
// contents wholesale. On failure the session proceeds with an empty
// history; the error is returned for display but never blocks the UI.
func (c *Controller) LoadHistory(ctx context.Context) error {
	messages, err := c.transport.History(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.loaded = true
	c.mu.Unlock()

	if err != nil {
		c.logf("history load failed: %v", err)
		c.changed()
		return fmt.Errorf("failed to load history: %w", err)
	}

	c.store.Replace(messages)
	c.changed()
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// Send performs the primary chat operation. It blocks until the
// transport call resolves (the reveal continues asynchronously), so
// callers run it off the UI goroutine.
//
// Preconditions: state is Idle and there is either non-blank text or a
// pending attachment. Any violation is a silent no-op.
func (c *Controller) Send(text string) error {
	text = util.NormalizeInput(text)

	c.mu.Lock()
	if c.closed || c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	hasAttachment := c.attachments.HasPending()
	if text == "" && !hasAttachment {
		c.mu.Unlock()
		return nil
	}

	// The attachment message is appended synchronously, before any
	// network call, so the user sees it regardless of latency.
	if hasAttachment {
		if msg, err := c.attachments.Materialize(); err == nil {
			c.store.Append(msg)
		}
	}

	// Attachment-only send: nothing to ask the assistant.
	if text == "" {
		c.mu.Unlock()
		c.changed()
		return nil
	}

	c.store.Append(model.NewUserMessage(text))
	c.state = StateSending
	ctx, cancel := context.WithTimeout(c.baseCtx, c.timeout)
	c.sendCancel = cancel
	c.mu.Unlock()
	c.changed()

	reply, err := c.transport.Send(ctx, text)
	cancel()

	c.mu.Lock()
	c.sendCancel = nil
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		// The user's message stays in the store: it reflects what was
		// handed to the transport attempt.
		c.state = StateIdle
		c.mu.Unlock()
		c.logf("send failed: %v", err)
		c.changed()
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.store.Append(model.NewAssistantPlaceholder(reply.ID, reply.Timestamp))
	c.state = StateStreaming
	c.fullReply = reply.Content
	c.mu.Unlock()
	c.changed()

	// Teardown may have raced the transition above; a reveal must not
	// start after Close.
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.scheduler.Start(reply.Content,
		func(prefix string) {
			c.store.AmendLast(prefix)
			c.changed()
		},
		c.finishReveal,
	)
	return nil
}

// finishReveal is the scheduler's completion callback.
func (c *Controller) finishReveal() {
	c.mu.Lock()
	if c.closed || c.state != StateStreaming {
		c.mu.Unlock()
		return
	}
	c.store.FinalizeLast()
	c.state = StateIdle
	c.fullReply = ""
	c.mu.Unlock()
	c.changed()
}

// =============================================================================
// INTERRUPT
// =============================================================================

// Interrupt aborts an active reveal. The interrupted message snaps to
// the full reply text: an answer the server already produced in full
// should never be lost to an impatient keypress. No-op outside
// Streaming.
func (c *Controller) Interrupt() {
	c.mu.Lock()
	if c.state != StateStreaming {
		c.mu.Unlock()
		return
	}
	full := c.fullReply
	c.mu.Unlock()

	// Blocks until no further tick can be delivered.
	c.scheduler.Cancel()

	c.mu.Lock()
	if c.state == StateStreaming {
		c.store.AmendLast(full)
		c.store.FinalizeLast()
		c.state = StateIdle
		c.fullReply = ""
	}
	c.mu.Unlock()
	c.changed()
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// SelectAttachment stages the file at path as the pending attachment.
func (c *Controller) SelectAttachment(path string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.attachments.Select(path); err != nil {
		return err
	}
	c.changed()
	return nil
}

// RemoveAttachment discards the pending attachment, if any.
func (c *Controller) RemoveAttachment() {
	c.attachments.Clear()
	c.changed()
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Close tears the session down: cancels any in-flight send and active
// reveal, and revokes every outstanding preview resource exactly once.
// Safe to call repeatedly.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.sendCancel != nil {
		c.sendCancel()
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.baseCancel()
	c.scheduler.Cancel()
	c.store.FinalizeLast()
	c.attachments.Close()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (c *Controller) changed() {
	if c.notify != nil {
		c.notify()
	}
}

func (c *Controller) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
