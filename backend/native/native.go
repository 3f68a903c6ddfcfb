// File: backend/native/native.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package native is the goroutine runtime adapter. Streams are dialled
// with net.Dialer on the Go netpoller; primitives are weighted semaphores.

package native

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/netstream"
	"github.com/momentics/hioload-rt/internal/socks"
	"github.com/momentics/hioload-rt/sniff"
)

var _ api.Backend = (*Backend)(nil)

// Backend implements api.Backend for plain goroutines.
type Backend struct {
	start time.Time
}

// New returns a goroutine-runtime backend. Its clock starts at zero.
func New() api.Backend {
	return &Backend{start: time.Now()}
}

// Go runs fn on a new goroutine whose context is marked as driven by the
// goroutine runtime.
func Go(ctx context.Context, fn func(ctx context.Context)) {
	tctx := sniff.Enter(ctx, api.RuntimeGoroutine)
	go fn(tctx)
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
}

// OpenUDSStream implements api.Backend. hostname is only used for TLS.
func (b *Backend) OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	if path == "" {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "empty socket path")
	}
	cctx, cancel := netstream.ConnectContext(ctx, timeouts)
	conn, err := dial(cctx, "unix", path)
	cancel()
	if err != nil {
		return nil, netstream.MapUnixConnectError(ctx, path, err)
	}
	return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
}

// OpenSocksStream implements api.Backend.
func (b *Backend) OpenSocksStream(ctx context.Context, hostname string, port int, proxy api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	return socks.OpenStream(ctx, dial, hostname, port, proxy, tlsConfig, timeouts)
}

// CreateLock implements api.Backend.
func (b *Backend) CreateLock(context.Context) (api.Lock, error) {
	return newLock(), nil
}

// CreateSemaphore implements api.Backend.
func (b *Backend) CreateSemaphore(_ context.Context, maxValue int, exceeded error) (api.Semaphore, error) {
	s, err := newSemaphore(maxValue, exceeded)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Time implements api.Backend: seconds since New on the monotonic clock.
func (b *Backend) Time(context.Context) (float64, error) {
	return time.Since(b.start).Seconds(), nil
}
