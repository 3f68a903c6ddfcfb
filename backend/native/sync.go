// File: backend/native/sync.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package native

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/momentics/hioload-rt/api"
)

var (
	_ api.Semaphore = (*Semaphore)(nil)
	_ api.Lock      = (*Lock)(nil)
)

// Semaphore wraps semaphore.Weighted with bounded waits and checked
// releases. Weighted panics on over-release; held guards against that.
type Semaphore struct {
	sem      *semaphore.Weighted
	held     atomic.Int64
	exceeded error
}

func newSemaphore(maxValue int, exceeded error) (*Semaphore, error) {
	if maxValue <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "semaphore max value must be positive").
			WithContext("max_value", maxValue)
	}
	if exceeded == nil {
		exceeded = api.ErrOperationTimeout
	}
	return &Semaphore{sem: semaphore.NewWeighted(int64(maxValue)), exceeded: exceeded}, nil
}

// Acquire implements api.Semaphore.
func (s *Semaphore) Acquire(ctx context.Context, timeout time.Duration) error {
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.sem.Acquire(actx, 1); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return s.exceeded
	}
	s.held.Add(1)
	return nil
}

// Release implements api.Semaphore.
func (s *Semaphore) Release() error {
	for {
		h := s.held.Load()
		if h <= 0 {
			return api.NewError(api.ErrCodeInvalidArgument, "release of unheld semaphore")
		}
		if s.held.CompareAndSwap(h, h-1) {
			s.sem.Release(1)
			return nil
		}
	}
}

// Lock is a Semaphore of one.
type Lock struct {
	sem *Semaphore
}

func newLock() *Lock {
	s, _ := newSemaphore(1, nil)
	return &Lock{sem: s}
}

// Acquire implements api.Lock.
func (l *Lock) Acquire(ctx context.Context) error { return l.sem.Acquire(ctx, 0) }

// Release implements api.Lock.
func (l *Lock) Release() error { return l.sem.Release() }
