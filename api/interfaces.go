// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"crypto/tls"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_backend.go -package=mocks github.com/momentics/hioload-rt/api Backend,SocketStream,Lock,Semaphore

// Backend is the operation set every runtime adapter implements.
// The dispatcher forwards to a Backend without altering arguments or results.
type Backend interface {
	OpenTCPStream(ctx context.Context, hostname string, port int, tlsConfig *tls.Config, timeouts Timeouts, localAddress string) (SocketStream, error)
	OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts Timeouts) (SocketStream, error)
	OpenSocksStream(ctx context.Context, hostname string, port int, proxy SocksProxy, tlsConfig *tls.Config, timeouts Timeouts) (SocketStream, error)
	CreateLock(ctx context.Context) (Lock, error)
	CreateSemaphore(ctx context.Context, maxValue int, exceeded error) (Semaphore, error)
	Time(ctx context.Context) (float64, error)
}

// Lock is a mutual-exclusion primitive of the backend's runtime.
type Lock interface {
	Acquire(ctx context.Context) error
	Release() error
}

// Semaphore is a counting semaphore of the backend's runtime.
type Semaphore interface {
	// Acquire waits for a slot. A positive timeout bounds the wait; when it
	// elapses the semaphore's configured error is returned.
	Acquire(ctx context.Context, timeout time.Duration) error
	Release() error
}

// WithLock runs fn while holding l.
func WithLock(ctx context.Context, l Lock, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer func() { _ = l.Release() }()
	return fn()
}
