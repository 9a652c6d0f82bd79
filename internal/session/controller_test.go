// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Nailong-Research-Team/kgllm/internal/attach"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
	"github.com/Nailong-Research-Team/kgllm/internal/typewriter"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// fakeTransport scripts the two operations the controller consumes.
type fakeTransport struct {
	mu         sync.Mutex
	history    []model.Message
	historyErr error
	reply      model.Message
	sendErr    error
	sendCalls  int
	onSend     func()
}

func (f *fakeTransport) History(ctx context.Context) ([]model.Message, error) {
	return f.history, f.historyErr
}

func (f *fakeTransport) Send(ctx context.Context, text string) (model.Message, error) {
	f.mu.Lock()
	f.sendCalls++
	hook := f.onSend
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.reply, f.sendErr
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}

// memPreviewer counts revocations per URL without touching the disk.
type memPreviewer struct {
	mu      sync.Mutex
	revoked map[string]int
}

func newMemPreviewer() *memPreviewer {
	return &memPreviewer{revoked: make(map[string]int)}
}

func (p *memPreviewer) Create(name, src string) (string, error) {
	return "preview://" + name, nil
}

func (p *memPreviewer) Revoke(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[url]++
	return nil
}

func (p *memPreviewer) count(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revoked[url]
}

func (p *memPreviewer) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.revoked {
		n += c
	}
	return n
}

// manualClock drives the scheduler tick by tick from the test.
type manualClock struct{ ch chan time.Time }

func newManualClock() *manualClock { return &manualClock{ch: make(chan time.Time)} }

func (c *manualClock) NewTicker(d time.Duration) typewriter.Ticker { return manualTicker{c.ch} }

func (c *manualClock) Tick() { c.ch <- time.Now() }

func (c *manualClock) TryTick() bool {
	select {
	case c.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

type manualTicker struct{ ch chan time.Time }

func (t manualTicker) C() <-chan time.Time { return t.ch }
func (t manualTicker) Stop()               {}

// fixture wires a controller with scripted transport, manual clock, and
// a notification channel for synchronizing on asynchronous mutations.
type fixture struct {
	ctrl      *Controller
	transport *fakeTransport
	previewer *memPreviewer
	clock     *manualClock
	notes     chan struct{}
}

func newFixture(t *testing.T, ft *fakeTransport) *fixture {
	t.Helper()
	f := &fixture{
		transport: ft,
		previewer: newMemPreviewer(),
		clock:     newManualClock(),
		notes:     make(chan struct{}, 256),
	}
	sched := typewriter.NewScheduler(typewriter.WithClock(f.clock))
	f.ctrl = NewController(ft, attach.NewManager(f.previewer),
		WithScheduler(sched),
		WithNotify(func() {
			select {
			case f.notes <- struct{}{}:
			default:
			}
		}),
	)
	t.Cleanup(f.ctrl.Close)
	return f
}

func (f *fixture) drainNotes() {
	for {
		select {
		case <-f.notes:
		default:
			return
		}
	}
}

func (f *fixture) waitNote(t *testing.T) {
	t.Helper()
	select {
	case <-f.notes:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func (f *fixture) waitState(t *testing.T, want State) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if f.ctrl.State() == want {
			return
		}
		select {
		case <-f.notes:
		case <-deadline:
			t.Fatalf("state = %v, want %v", f.ctrl.State(), want)
		}
	}
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// =============================================================================
// HISTORY
// =============================================================================

func TestLoadHistory_ReplacesStore(t *testing.T) {
	f := newFixture(t, &fakeTransport{
		history: []model.Message{
			{ID: "h1", Role: model.RoleUser, Content: "old question"},
			{ID: "h2", Role: model.RoleAssistant, Content: "old answer"},
		},
	})

	if err := f.ctrl.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	snap := f.ctrl.Snapshot()
	if len(snap) != 2 || snap[0].ID != "h1" || snap[1].ID != "h2" {
		t.Errorf("snapshot = %+v", snap)
	}
	if !f.ctrl.Ready() {
		t.Error("Ready should be true after load")
	}
}

func TestLoadHistory_FailureFallsBackToEmpty(t *testing.T) {
	f := newFixture(t, &fakeTransport{historyErr: errors.New("boom")})

	err := f.ctrl.LoadHistory(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(f.ctrl.Snapshot()); n != 0 {
		t.Errorf("store has %d messages, want 0", n)
	}
	// The UI proceeds with an empty history rather than blocking.
	if !f.ctrl.Ready() {
		t.Error("Ready should settle even on failure")
	}
}

// =============================================================================
// SCENARIO A: empty send is a no-op
// =============================================================================

func TestSend_EmptyInputNoAttachment(t *testing.T) {
	f := newFixture(t, &fakeTransport{})

	if err := f.ctrl.Send(""); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := f.ctrl.Send("   \t\n  "); err != nil {
		t.Fatalf("Send whitespace: %v", err)
	}

	if got := f.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	if n := len(f.ctrl.Snapshot()); n != 0 {
		t.Errorf("store has %d messages, want 0", n)
	}
	if f.transport.calls() != 0 {
		t.Error("transport called for an empty send")
	}
}

// =============================================================================
// SCENARIO B: text send runs the full state cycle
// =============================================================================

func TestSend_TextFullCycle(t *testing.T) {
	full := "hi there"
	ft := &fakeTransport{
		reply: model.Message{
			ID:        "42",
			Role:      model.RoleAssistant,
			Content:   full,
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	f := newFixture(t, ft)

	// Observed from inside the transport call: state must be Sending.
	ft.onSend = func() {
		if got := f.ctrl.State(); got != StateSending {
			t.Errorf("state during transport = %v, want sending", got)
		}
	}

	if err := f.ctrl.Send("hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := f.ctrl.State(); got != StateStreaming {
		t.Fatalf("state after Send = %v, want streaming", got)
	}

	snap := f.ctrl.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("store has %d messages, want 2", len(snap))
	}
	if snap[0].Role != model.RoleUser || snap[0].Content != "hello" {
		t.Errorf("first message = %+v", snap[0])
	}
	if snap[1].Role != model.RoleAssistant || snap[1].ID != "42" || snap[1].Content != "" {
		t.Errorf("placeholder = %+v", snap[1])
	}

	// Every prefix passes through the store, in order.
	f.drainNotes()
	runes := []rune(full)
	for i := 1; i <= len(runes); i++ {
		f.clock.Tick()
		f.waitNote(t)
		last, _ := f.ctrl.Store().Last()
		if want := string(runes[:i]); last.Content != want {
			t.Fatalf("tick %d: content = %q, want %q", i, last.Content, want)
		}
	}

	f.waitState(t, StateIdle)
	last, _ := f.ctrl.Store().Last()
	if last.Content != full {
		t.Errorf("final content = %q, want %q", last.Content, full)
	}
	if last.Streaming {
		t.Error("reveal ownership not released after completion")
	}
}

// =============================================================================
// SCENARIO C: attachment-only send never calls the transport
// =============================================================================

func TestSend_AttachmentOnly(t *testing.T) {
	f := newFixture(t, &fakeTransport{})

	img := writeTempFile(t, "photo.png", []byte("png"))
	if err := f.ctrl.SelectAttachment(img); err != nil {
		t.Fatalf("SelectAttachment: %v", err)
	}

	if err := f.ctrl.Send("   "); err != nil {
		t.Fatalf("Send: %v", err)
	}

	snap := f.ctrl.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("store has %d messages, want 1", len(snap))
	}
	if snap[0].Content != "[image] photo.png" {
		t.Errorf("message = %q", snap[0].Content)
	}
	if f.transport.calls() != 0 {
		t.Error("transport called for an attachment-only send")
	}
	if got := f.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	if _, ok := f.ctrl.PendingAttachment(); ok {
		t.Error("pending attachment not cleared by send")
	}
}

// =============================================================================
// SCENARIO D: transport failure leaves only the user message
// =============================================================================

func TestSend_TransportFailure(t *testing.T) {
	f := newFixture(t, &fakeTransport{sendErr: errors.New("network down")})

	err := f.ctrl.Send("hello")
	if err == nil {
		t.Fatal("expected error from failed send")
	}

	snap := f.ctrl.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("store has %d messages, want 1", len(snap))
	}
	if snap[0].Role != model.RoleUser || snap[0].Content != "hello" {
		t.Errorf("message = %+v", snap[0])
	}
	if got := f.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}

	// The composer remains usable after a failure.
	f2reply := model.Message{ID: "2", Role: model.RoleAssistant, Content: "ok"}
	f.transport.mu.Lock()
	f.transport.sendErr = nil
	f.transport.reply = f2reply
	f.transport.mu.Unlock()

	if err := f.ctrl.Send("retry"); err != nil {
		t.Fatalf("Send after failure: %v", err)
	}
	if got := f.ctrl.State(); got != StateStreaming {
		t.Errorf("state = %v, want streaming", got)
	}
}

// =============================================================================
// SCENARIO E: teardown mid-streaming
// =============================================================================

func TestClose_MidStreaming(t *testing.T) {
	full := "a long reply being revealed"
	f := newFixture(t, &fakeTransport{
		reply: model.Message{ID: "9", Role: model.RoleAssistant, Content: full},
	})

	img := writeTempFile(t, "chart.png", []byte("png"))
	if err := f.ctrl.SelectAttachment(img); err != nil {
		t.Fatalf("SelectAttachment: %v", err)
	}
	if err := f.ctrl.Send("explain this chart"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	f.drainNotes()
	f.clock.Tick()
	f.waitNote(t)
	f.clock.Tick()
	f.waitNote(t)

	f.ctrl.Close()

	// No further tick is consumed once teardown returns.
	if f.clock.TryTick() {
		t.Error("reveal still ticking after Close")
	}

	// The preview resource is revoked exactly once, even across a
	// second teardown.
	if got := f.previewer.count("preview://chart.png"); got != 1 {
		t.Errorf("preview revoked %d times, want 1", got)
	}
	f.ctrl.Close()
	if got := f.previewer.count("preview://chart.png"); got != 1 {
		t.Errorf("preview revoked %d times after double Close, want 1", got)
	}
	if f.previewer.total() != 1 {
		t.Errorf("total revocations = %d, want 1", f.previewer.total())
	}
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture(t, &fakeTransport{})
	f.ctrl.Close()
	f.ctrl.Close()
	f.ctrl.Close()
}

func TestSend_AfterCloseIsNoOp(t *testing.T) {
	f := newFixture(t, &fakeTransport{})
	f.ctrl.Close()

	if err := f.ctrl.Send("hello"); err != nil {
		t.Fatalf("Send after Close: %v", err)
	}
	if f.transport.calls() != 0 {
		t.Error("transport called after Close")
	}
	if n := len(f.ctrl.Snapshot()); n != 0 {
		t.Errorf("store has %d messages after Close, want 0", n)
	}
}

// =============================================================================
// INTERRUPT AND OVERLAP
// =============================================================================

func TestInterrupt_SnapsToFullText(t *testing.T) {
	full := "the complete answer"
	f := newFixture(t, &fakeTransport{
		reply: model.Message{ID: "5", Role: model.RoleAssistant, Content: full},
	})

	if err := f.ctrl.Send("question"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	f.drainNotes()
	f.clock.Tick()
	f.waitNote(t)

	f.ctrl.Interrupt()

	if got := f.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	last, _ := f.ctrl.Store().Last()
	if last.Content != full {
		t.Errorf("content = %q, want full text %q", last.Content, full)
	}
	if f.clock.TryTick() {
		t.Error("reveal still ticking after Interrupt")
	}
}

func TestInterrupt_WhenIdleIsNoOp(t *testing.T) {
	f := newFixture(t, &fakeTransport{})
	f.ctrl.Interrupt()
	if got := f.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestSend_WhileStreamingIsNoOp(t *testing.T) {
	f := newFixture(t, &fakeTransport{
		reply: model.Message{ID: "5", Role: model.RoleAssistant, Content: "reply text"},
	})

	if err := f.ctrl.Send("first"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := f.ctrl.State(); got != StateStreaming {
		t.Fatalf("state = %v, want streaming", got)
	}
	before := len(f.ctrl.Snapshot())

	// Defensive precondition: overlapping send is rejected silently.
	if err := f.ctrl.Send("second"); err != nil {
		t.Fatalf("overlapping Send: %v", err)
	}
	if f.transport.calls() != 1 {
		t.Errorf("transport calls = %d, want 1", f.transport.calls())
	}
	if got := len(f.ctrl.Snapshot()); got != before {
		t.Errorf("store grew from %d to %d during overlap", before, got)
	}
}

func TestSend_TextAndAttachmentTogether(t *testing.T) {
	f := newFixture(t, &fakeTransport{
		reply: model.Message{ID: "7", Role: model.RoleAssistant, Content: "ok"},
	})

	doc := writeTempFile(t, "notes.txt", []byte("text"))
	if err := f.ctrl.SelectAttachment(doc); err != nil {
		t.Fatalf("SelectAttachment: %v", err)
	}
	if err := f.ctrl.Send("see attached"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	snap := f.ctrl.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("store has %d messages, want 3", len(snap))
	}
	// File message first, then the text, then the placeholder.
	if snap[0].Content != "[file] notes.txt" {
		t.Errorf("first = %q", snap[0].Content)
	}
	if snap[1].Content != "see attached" {
		t.Errorf("second = %q", snap[1].Content)
	}
	if snap[2].Role != model.RoleAssistant {
		t.Errorf("third = %+v", snap[2])
	}
	if f.transport.calls() != 1 {
		t.Errorf("transport calls = %d, want 1", f.transport.calls())
	}
}
