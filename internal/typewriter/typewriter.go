// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter reveals an already-complete reply incrementally to
// simulate generation. The reveal is a cooperative task driven by a
// clock abstraction, not by any UI timer, so it can be canceled at any
// tick boundary and tested without real time. Swapping it for genuine
// incremental transport later does not change the session controller's
// contract.
package typewriter

import (
	"sync"
	"time"
)

// DefaultCharInterval is the reveal cadence: one character per tick.
// Fixed, not adaptive to text length or rendering cost.
const DefaultCharInterval = 24 * time.Millisecond

// =============================================================================
// CLOCK ABSTRACTION
// =============================================================================

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Production uses the system clock; tests drive
// a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler runs at most one reveal at a time. Starting a new reveal
// implicitly cancels the previous one; two reveals never run
// concurrently.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	active   *reveal
}

type reveal struct {
	cancel chan struct{} // closed to request cancellation
	done   chan struct{} // closed when the goroutine has fully exited
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock substitutes the tick source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval overrides the per-character cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewScheduler creates an idle scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    systemClock{},
		interval: DefaultCharInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins revealing fullText. onTick receives prefixes of strictly
// increasing rune length, one per tick; onComplete fires once after the
// final prefix (the full text) has been emitted. An empty text
// completes immediately without ticking. Any reveal already in progress
// is canceled first.
func (s *Scheduler) Start(fullText string, onTick func(prefix string), onComplete func()) {
	s.Cancel()

	r := &reveal{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.active = r
	s.mu.Unlock()

	go s.run(r, fullText, onTick, onComplete)
}

func (s *Scheduler) run(r *reveal, fullText string, onTick func(string), onComplete func()) {
	defer close(r.done)
	defer s.release(r)

	runes := []rune(fullText)
	if len(runes) == 0 {
		onComplete()
		return
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-r.cancel:
			return
		case <-ticker.C():
		}
		// The tick and a cancellation can race; cancellation wins so
		// no prefix is emitted after Cancel returns.
		select {
		case <-r.cancel:
			return
		default:
		}
		onTick(string(runes[:i]))
	}
	onComplete()
}

// release clears the active slot if it still belongs to r.
func (s *Scheduler) release(r *reveal) {
	s.mu.Lock()
	if s.active == r {
		s.active = nil
	}
	s.mu.Unlock()
}

// Cancel stops the active reveal, if any, leaving the last emitted
// prefix as the terminal state. It blocks until the reveal goroutine
// has exited, so no tick is delivered after Cancel returns. Safe to
// call when idle or repeatedly.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	r := s.active
	s.active = nil
	s.mu.Unlock()

	if r == nil {
		return
	}
	close(r.cancel)
	<-r.done
}

// Active reports whether a reveal is in progress.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}
