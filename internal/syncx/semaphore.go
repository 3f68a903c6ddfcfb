// File: internal/syncx/semaphore.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO counting semaphore and lock with context cancellation and bounded
// waits. Slots are handed directly to the oldest waiter on release, so a
// late arrival can never overtake a queued task.

package syncx

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-rt/api"
)

var (
	_ api.Semaphore = (*Semaphore)(nil)
	_ api.Lock      = (*Lock)(nil)
)

type waiter struct {
	ready     chan struct{}
	cancelled bool
}

// Semaphore is a FIFO counting semaphore.
type Semaphore struct {
	mu       sync.Mutex
	max      int
	held     int
	waiters  *queue.Queue // of *waiter
	exceeded error
}

// NewSemaphore returns a semaphore admitting maxValue holders. exceeded is
// returned when a bounded Acquire times out; nil selects
// api.ErrOperationTimeout.
func NewSemaphore(maxValue int, exceeded error) (*Semaphore, error) {
	if maxValue <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "semaphore max value must be positive").
			WithContext("max_value", maxValue)
	}
	if exceeded == nil {
		exceeded = api.ErrOperationTimeout
	}
	return &Semaphore{max: maxValue, waiters: queue.New(), exceeded: exceeded}, nil
}

// Acquire implements api.Semaphore.
func (s *Semaphore) Acquire(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.purgeLocked()
	if s.waiters.Length() == 0 && s.held < s.max {
		s.held++
		s.mu.Unlock()
		return nil
	}
	w := &waiter{ready: make(chan struct{})}
	s.waiters.Add(w)
	s.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return s.abandon(w, ctx.Err())
	case <-expired:
		return s.abandon(w, s.exceeded)
	}
}

// abandon withdraws w. If a slot was handed over concurrently it is
// passed on, so the caller still observes err.
func (s *Semaphore) abandon(w *waiter, err error) error {
	s.mu.Lock()
	select {
	case <-w.ready:
		s.releaseLocked()
	default:
		w.cancelled = true
	}
	s.mu.Unlock()
	return err
}

// Release implements api.Semaphore.
func (s *Semaphore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held == 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "release of unheld semaphore")
	}
	s.releaseLocked()
	return nil
}

func (s *Semaphore) releaseLocked() {
	s.purgeLocked()
	if s.waiters.Length() > 0 {
		close(s.waiters.Remove().(*waiter).ready)
		return
	}
	s.held--
}

// purgeLocked drops abandoned waiters from the head of the queue.
// A live waiter at the head implies every slot is held.
func (s *Semaphore) purgeLocked() {
	for s.waiters.Length() > 0 && s.waiters.Peek().(*waiter).cancelled {
		s.waiters.Remove()
	}
}

// Held reports the number of slots in use.
func (s *Semaphore) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Lock is a FIFO mutual-exclusion lock.
type Lock struct {
	sem *Semaphore
}

// NewLock returns an unlocked Lock.
func NewLock() *Lock {
	sem, _ := NewSemaphore(1, nil)
	return &Lock{sem: sem}
}

// Acquire implements api.Lock.
func (l *Lock) Acquire(ctx context.Context) error { return l.sem.Acquire(ctx, 0) }

// Release implements api.Lock.
func (l *Lock) Release() error { return l.sem.Release() }
