// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"context"
	"crypto/tls"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rt/api"
)

// Operation names recorded in Call.Op.
const (
	OpOpenTCPStream   = "OpenTCPStream"
	OpOpenUDSStream   = "OpenUDSStream"
	OpOpenSocksStream = "OpenSocksStream"
	OpCreateLock      = "CreateLock"
	OpCreateSemaphore = "CreateSemaphore"
	OpTime            = "Time"
	OpStartTLS        = "StartTLS"
)

// Call is one recorded backend invocation.
type Call struct {
	Op   string
	Ctx  context.Context
	Args []any
}

var _ api.Backend = (*Backend)(nil)

// Backend is an api.Backend stub. Every open returns a *Stream whose Call
// echoes the arguments; every primitive remembers how it was created.
type Backend struct {
	// Name distinguishes backends in assertions.
	Name string
	// Err, when set, is returned by every operation.
	Err error
	// Clock is returned by Time.
	Clock float64

	mu     sync.Mutex
	calls  []Call
	closed atomic.Bool
}

// NewBackend returns a stub named name.
func NewBackend(name string) *Backend {
	return &Backend{Name: name}
}

func (b *Backend) record(ctx context.Context, op string, args ...any) Call {
	c := Call{Op: op, Ctx: ctx, Args: args}
	b.mu.Lock()
	b.calls = append(b.calls, c)
	b.mu.Unlock()
	return c
}

// Calls returns every recorded call in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Closed reports whether Close was called.
func (b *Backend) Closed() bool { return b.closed.Load() }

// Close marks the backend closed; it lets tests observe dispatcher shutdown.
func (b *Backend) Close() error {
	b.closed.Store(true)
	return nil
}

func (b *Backend) open(call Call) (api.SocketStream, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	return &Stream{Call: call}, nil
}

// OpenTCPStream implements api.Backend.
func (b *Backend) OpenTCPStream(ctx context.Context, hostname string, port int, tlsConfig *tls.Config, timeouts api.Timeouts, localAddress string) (api.SocketStream, error) {
	return b.open(b.record(ctx, OpOpenTCPStream, hostname, port, tlsConfig, timeouts, localAddress))
}

// OpenUDSStream implements api.Backend.
func (b *Backend) OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	return b.open(b.record(ctx, OpOpenUDSStream, path, hostname, tlsConfig, timeouts))
}

// OpenSocksStream implements api.Backend.
func (b *Backend) OpenSocksStream(ctx context.Context, hostname string, port int, proxy api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	return b.open(b.record(ctx, OpOpenSocksStream, hostname, port, proxy, tlsConfig, timeouts))
}

// CreateLock implements api.Backend.
func (b *Backend) CreateLock(ctx context.Context) (api.Lock, error) {
	b.record(ctx, OpCreateLock)
	if b.Err != nil {
		return nil, b.Err
	}
	return &Lock{Origin: b}, nil
}

// CreateSemaphore implements api.Backend. A non-positive maxValue fails
// with an api.ErrInvalidArgument-coded error.
func (b *Backend) CreateSemaphore(ctx context.Context, maxValue int, exceeded error) (api.Semaphore, error) {
	b.record(ctx, OpCreateSemaphore, maxValue, exceeded)
	if b.Err != nil {
		return nil, b.Err
	}
	if maxValue <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "semaphore max value must be positive").
			WithContext("max_value", maxValue)
	}
	return &Semaphore{Origin: b, Max: maxValue, Exceeded: exceeded}, nil
}

// Time implements api.Backend.
func (b *Backend) Time(ctx context.Context) (float64, error) {
	b.record(ctx, OpTime)
	if b.Err != nil {
		return 0, b.Err
	}
	return b.Clock, nil
}

// Lock is a non-blocking fake api.Lock.
type Lock struct {
	Origin *Backend
	held   atomic.Bool
}

// Acquire fails with api.ErrOperationTimeout if already held.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !l.held.CompareAndSwap(false, true) {
		return api.ErrOperationTimeout
	}
	return nil
}

// Release implements api.Lock.
func (l *Lock) Release() error {
	if !l.held.CompareAndSwap(true, false) {
		return api.NewError(api.ErrCodeInvalidArgument, "release of unheld lock")
	}
	return nil
}

// Semaphore is a non-blocking fake api.Semaphore.
type Semaphore struct {
	Origin   *Backend
	Max      int
	Exceeded error

	mu   sync.Mutex
	held int
}

// Acquire returns Exceeded immediately when every slot is taken.
func (s *Semaphore) Acquire(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held >= s.Max {
		if s.Exceeded != nil {
			return s.Exceeded
		}
		return api.ErrOperationTimeout
	}
	s.held++
	return nil
}

// Release implements api.Semaphore.
func (s *Semaphore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held == 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "release of unheld semaphore")
	}
	s.held--
	return nil
}
