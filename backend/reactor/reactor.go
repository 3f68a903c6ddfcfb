// File: backend/reactor/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package reactor is the readiness-driven runtime adapter. On Linux it
// opens non-blocking sockets and waits for connect completion on epoll
// before handing the descriptor to the Go netpoller; elsewhere it falls
// back to net.Dialer.

package reactor

import (
	"context"
	"crypto/tls"
	"net"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/logging"
	"github.com/momentics/hioload-rt/internal/netstream"
	"github.com/momentics/hioload-rt/internal/socks"
	"github.com/momentics/hioload-rt/internal/syncx"
	"github.com/momentics/hioload-rt/sniff"
)

var _ api.Backend = (*Backend)(nil)

// Runtime launches reactor tasks, each pinned to its own OS thread.
type Runtime struct {
	base time.Duration
	cpus []int
	next atomic.Uint64
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithCPUs pins task threads to the given CPUs in round-robin order.
// An empty list leaves scheduling to the OS.
func WithCPUs(cpus ...int) RuntimeOption {
	return func(r *Runtime) {
		r.cpus = append([]int(nil), cpus...)
	}
}

// NewRuntime returns a runtime whose clock starts now.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{base: monotonic()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CPUs returns the pinning set.
func (r *Runtime) CPUs() []int {
	return append([]int(nil), r.cpus...)
}

// Go runs fn on a goroutine locked to its OS thread with a context
// marked as driven by the reactor runtime.
func (r *Runtime) Go(ctx context.Context, fn func(ctx context.Context)) {
	tctx := sniff.Enter(ctx, api.RuntimeReactor)
	cpu := r.pick()
	go func() {
		runtime.LockOSThread()
		if cpu < 0 {
			defer runtime.UnlockOSThread()
		} else if err := affinity.SetAffinity(cpu); err != nil {
			// The thread stays locked so a partially applied mask dies with it.
			lg := logging.Component("reactor")
			lg.Warn().Err(err).Int("cpu", cpu).Msg("cpu pinning failed")
		}
		fn(tctx)
	}()
}

// pick returns the next CPU or -1 when pinning is off.
func (r *Runtime) pick() int {
	if len(r.cpus) == 0 {
		return -1
	}
	n := r.next.Add(1) - 1
	return r.cpus[n%uint64(len(r.cpus))]
}

// Now returns seconds elapsed on the monotonic clock since NewRuntime.
func (r *Runtime) Now() float64 {
	return (monotonic() - r.base).Seconds()
}

// Backend implements api.Backend for the reactor runtime.
type Backend struct {
	rt *Runtime
}

// New returns a reactor backend with its own clock origin.
func New() api.Backend {
	return &Backend{rt: NewRuntime()}
}

// NewWithRuntime binds a backend to rt.
func NewWithRuntime(rt *Runtime) *Backend {
	return &Backend{rt: rt}
}

// OpenTCPStream implements api.Backend.
func (b *Backend) OpenTCPStream(ctx context.Context, hostname string, port int, tlsConfig *tls.Config, timeouts api.Timeouts, localAddress string) (api.SocketStream, error) {
	if _, err := netstream.HostPort(hostname, port); err != nil {
		return nil, err
	}
	host, err := netstream.ASCIIHost(hostname)
	if err != nil {
		return nil, err
	}
	local, err := netstream.LocalTCPAddr(localAddress)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cctx, cancel := netstream.ConnectContext(ctx, timeouts)
	conn, err := dialTCP(cctx, host, port, local)
	cancel()
	if err != nil {
		return nil, netstream.MapConnectError(ctx, err)
	}
	return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
}

// OpenUDSStream implements api.Backend.
func (b *Backend) OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	if path == "" {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "empty socket path")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cctx, cancel := netstream.ConnectContext(ctx, timeouts)
	conn, err := dialUnix(cctx, path)
	cancel()
	if err != nil {
		return nil, netstream.MapUnixConnectError(ctx, path, err)
	}
	return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
}

// OpenSocksStream implements api.Backend. The proxy hop uses the
// reactor's own connect path.
func (b *Backend) OpenSocksStream(ctx context.Context, hostname string, port int, proxy api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	return socks.OpenStream(ctx, dialProxy, hostname, port, proxy, tlsConfig, timeouts)
}

func dialProxy(ctx context.Context, _, address string) (net.Conn, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, err := net.LookupPort("tcp", portStr)
	if err != nil {
		return nil, err
	}
	return dialTCP(ctx, host, port, nil)
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
