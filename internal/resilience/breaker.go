// Package resilience contains the circuit breaker guarding upstream HTTP
// calls. The YouTube scraping client and the search client each route their
// requests through a [Breaker] so a rate-limiting or blocking upstream is
// backed off instead of hammered.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrOpen is returned by [Breaker.Do] while the breaker is refusing calls.
var ErrOpen = errors.New("resilience: breaker open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateProbing
)

func (s state) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateProbing:
		return "probing"
	}
	return "unknown"
}

// Settings tunes a [Breaker]. Zero-value fields use the default noted on
// each field.
type Settings struct {
	// Threshold is how many consecutive failures trip the breaker. Default 5.
	Threshold int

	// Cooldown is how long a tripped breaker refuses calls before letting a
	// probe through. Default 30s.
	Cooldown time.Duration
}

// Breaker is a consecutive-failure circuit breaker. While tripped it fails
// fast with [ErrOpen]; after the cooldown it admits a single probe call at a
// time, closing on a probe success and re-tripping on a probe failure.
// Safe for concurrent use.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time // swapped out in tests

	mu       sync.Mutex
	state    state
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker returns a closed [Breaker]. The name appears in log lines only.
func NewBreaker(name string, s Settings) *Breaker {
	if s.Threshold <= 0 {
		s.Threshold = 5
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      name,
		threshold: s.Threshold,
		cooldown:  s.Cooldown,
		now:       time.Now,
	}
}

// Do runs fn unless the breaker is refusing calls. A context that is already
// done fails with its error without touching the failure accounting.
func (b *Breaker) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.settle(err == nil)
	return err
}

// Tripped reports whether the breaker is currently rejecting regular calls.
func (b *Breaker) Tripped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != stateClosed
}

// Reset forces the breaker closed and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = stateClosed
	b.failures = 0
	b.probing = false
	slog.Info("breaker reset", "name", b.name)
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrOpen
		}
		b.state = stateProbing
		b.probing = true
		slog.Info("breaker probing upstream", "name", b.name)
		return nil
	case stateProbing:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

func (b *Breaker) settle(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateProbing {
		b.probing = false
		if ok {
			b.state = stateClosed
			b.failures = 0
			slog.Info("breaker closed after successful probe", "name", b.name)
		} else {
			b.state = stateOpen
			b.openedAt = b.now()
			slog.Warn("breaker re-tripped by probe failure", "name", b.name)
		}
		return
	}

	if ok {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.state = stateOpen
		b.openedAt = b.now()
		slog.Warn("breaker tripped", "name", b.name, "consecutive_failures", b.failures)
	}
}
