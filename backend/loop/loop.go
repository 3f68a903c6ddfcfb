// File: backend/loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package loop is the eventloop runtime adapter. Blocking connects are
// offloaded and awaited so a cancelled caller returns at once; a
// connection that completes after cancellation is closed.

package loop

import (
	"context"
	"crypto/tls"
	"io"
	"net"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/netstream"
	"github.com/momentics/hioload-rt/internal/socks"
	"github.com/momentics/hioload-rt/internal/syncx"
)

var (
	_ api.Backend = (*Backend)(nil)
	_ io.Closer   = (*Backend)(nil)
)

// Backend implements api.Backend for a loop Runtime.
type Backend struct {
	rt    *Runtime
	owned bool
}

// New returns a backend on the shared Default runtime.
func New() api.Backend {
	return &Backend{rt: Default()}
}

// NewWithRuntime returns a backend on rt. The backend takes ownership:
// Close closes rt.
func NewWithRuntime(rt *Runtime) *Backend {
	return &Backend{rt: rt, owned: true}
}

// Runtime returns the runtime the backend is bound to.
func (b *Backend) Runtime() *Runtime { return b.rt }

// Close implements io.Closer. The shared default runtime is never closed.
func (b *Backend) Close() error {
	if b.owned {
		b.rt.Close()
	}
	return nil
}

type result[T io.Closer] struct {
	v   T
	err error
}

// await runs fn off the calling task and waits for it or for ctx.
func await[T io.Closer](ctx context.Context, fn func() (T, error)) (T, error) {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.err == nil {
				_ = r.v.Close()
			}
		}()
		var zero T
		return zero, ctx.Err()
	}
}

func dial(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

// OpenTCPStream implements api.Backend.
func (b *Backend) OpenTCPStream(ctx context.Context, hostname string, port int, tlsConfig *tls.Config, timeouts api.Timeouts, localAddress string) (api.SocketStream, error) {
	addr, err := netstream.HostPort(hostname, port)
	if err != nil {
		return nil, err
	}
	local, err := netstream.LocalTCPAddr(localAddress)
	if err != nil {
		return nil, err
	}
	return await(ctx, func() (api.SocketStream, error) {
		var d net.Dialer
		if local != nil {
			d.LocalAddr = local
		}
		cctx, cancel := netstream.ConnectContext(ctx, timeouts)
		conn, err := d.DialContext(cctx, "tcp", addr)
		cancel()
		if err != nil {
			return nil, netstream.MapConnectError(ctx, err)
		}
		return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
	})
}

// OpenUDSStream implements api.Backend.
func (b *Backend) OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	if path == "" {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "empty socket path")
	}
	return await(ctx, func() (api.SocketStream, error) {
		cctx, cancel := netstream.ConnectContext(ctx, timeouts)
		conn, err := dial(cctx, "unix", path)
		cancel()
		if err != nil {
			return nil, netstream.MapUnixConnectError(ctx, path, err)
		}
		return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
	})
}

// OpenSocksStream implements api.Backend.
func (b *Backend) OpenSocksStream(ctx context.Context, hostname string, port int, proxy api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	return await(ctx, func() (api.SocketStream, error) {
		return socks.OpenStream(ctx, dial, hostname, port, proxy, tlsConfig, timeouts)
	})
}

// CreateLock implements api.Backend.
func (b *Backend) CreateLock(context.Context) (api.Lock, error) {
	return syncx.NewLock(), nil
}

// CreateSemaphore implements api.Backend.
func (b *Backend) CreateSemaphore(_ context.Context, maxValue int, exceeded error) (api.Semaphore, error) {
	s, err := syncx.NewSemaphore(maxValue, exceeded)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Time implements api.Backend.
func (b *Backend) Time(context.Context) (float64, error) {
	return b.rt.Now(), nil
}
