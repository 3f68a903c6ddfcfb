// Package backendtest is a conformance suite every api.Backend runs.
package backendtest

import (
	"context"
	"errors"
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/testutil/echo"
	"github.com/momentics/hioload-rt/internal/testutil/socksproxy"
	"github.com/momentics/hioload-rt/internal/testutil/tlstest"
)

var errPoolFull = errors.New("pool full")

// Run exercises b against loopback servers.
func Run(t *testing.T, newBackend func() api.Backend) {
	t.Run("TCPEcho", func(t *testing.T) { testTCPEcho(t, newBackend()) })
	t.Run("TCPTLS", func(t *testing.T) { testTCPTLS(t, newBackend()) })
	t.Run("TCPTLSTimeout", func(t *testing.T) { testTCPTLSTimeout(t, newBackend()) })
	t.Run("TCPRefused", func(t *testing.T) { testTCPRefused(t, newBackend()) })
	t.Run("TCPCancelled", func(t *testing.T) { testTCPCancelled(t, newBackend()) })
	t.Run("TCPLocalAddress", func(t *testing.T) { testTCPLocalAddress(t, newBackend()) })
	t.Run("TCPInvalidArguments", func(t *testing.T) { testTCPInvalidArguments(t, newBackend()) })
	t.Run("UDSEcho", func(t *testing.T) { testUDSEcho(t, newBackend()) })
	t.Run("UDSMissingPath", func(t *testing.T) { testUDSMissingPath(t, newBackend()) })
	t.Run("SocksEcho", func(t *testing.T) { testSocksEcho(t, newBackend()) })
	t.Run("SocksRefused", func(t *testing.T) { testSocksRefused(t, newBackend()) })
	t.Run("Lock", func(t *testing.T) { testLock(t, newBackend()) })
	t.Run("Semaphore", func(t *testing.T) { testSemaphore(t, newBackend()) })
	t.Run("SemaphoreInvalid", func(t *testing.T) { testSemaphoreInvalid(t, newBackend()) })
	t.Run("Time", func(t *testing.T) { testTime(t, newBackend()) })
}

var shortTimeouts = api.Timeouts{
	api.PhaseConnect: 2 * time.Second,
	api.PhaseRead:    2 * time.Second,
	api.PhaseWrite:   2 * time.Second,
}

func roundTrip(t *testing.T, s api.SocketStream, payload string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, []byte(payload), shortTimeouts))
	var got []byte
	for len(got) < len(payload) {
		chunk, err := s.Read(ctx, 64, shortTimeouts)
		require.NoError(t, err)
		require.NotEmpty(t, chunk, "unexpected EOF")
		got = append(got, chunk...)
	}
	assert.Equal(t, payload, string(got))
}

func testTCPEcho(t *testing.T, b api.Backend) {
	srv := echo.TCP(t)
	s, err := b.OpenTCPStream(context.Background(), srv.Host(), srv.Port(), nil, shortTimeouts, "")
	require.NoError(t, err)
	defer s.Close()

	roundTrip(t, s, "hello over tcp")
	assert.Equal(t, "HTTP/1.1", s.HTTPVersion())
	assert.False(t, s.IsConnectionDropped())
}

func testTCPTLS(t *testing.T, b api.Backend) {
	ca := tlstest.NewAuthority(t, "backend-ca")
	srv := echo.TLS(t, ca.ServerConfig(t, []string{"example.test"}, []net.IP{net.ParseIP("127.0.0.1")}, "h2", "http/1.1"))

	// The hostname drives SNI and verification; dial the loopback IP.
	cfg := ca.ClientConfig()
	cfg.ServerName = "example.test"
	s, err := b.OpenTCPStream(context.Background(), srv.Host(), srv.Port(), cfg, shortTimeouts, "")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "HTTP/2", s.HTTPVersion())
	roundTrip(t, s, "hello over tls")
}

func testTCPTLSTimeout(t *testing.T, b api.Backend) {
	ca := tlstest.NewAuthority(t, "backend-ca")
	srv := echo.Silent(t)
	_, err := b.OpenTCPStream(context.Background(), srv.Host(), srv.Port(), ca.ClientConfig(),
		api.Timeouts{api.PhaseConnect: 50 * time.Millisecond}, "")
	assert.ErrorIs(t, err, api.ErrConnectTimeout)
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func testTCPRefused(t *testing.T, b api.Backend) {
	_, err := b.OpenTCPStream(context.Background(), "127.0.0.1", closedPort(t), nil, shortTimeouts, "")
	assert.ErrorIs(t, err, api.ErrConnect)
}

func testTCPCancelled(t *testing.T, b api.Backend) {
	srv := echo.Silent(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.OpenTCPStream(ctx, srv.Host(), srv.Port(), nil, nil, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func testTCPLocalAddress(t *testing.T, b api.Backend) {
	srv := echo.TCP(t)
	s, err := b.OpenTCPStream(context.Background(), srv.Host(), srv.Port(), nil, shortTimeouts, "127.0.0.1")
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s, "bound")
}

func testTCPInvalidArguments(t *testing.T, b api.Backend) {
	ctx := context.Background()
	_, err := b.OpenTCPStream(ctx, "127.0.0.1", 0, nil, nil, "")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = b.OpenTCPStream(ctx, "127.0.0.1", 80, nil, nil, "not-an-ip")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func skipWithoutUnixSockets(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("unix domain sockets unavailable")
	}
}

func testUDSEcho(t *testing.T, b api.Backend) {
	skipWithoutUnixSockets(t)
	srv := echo.Unix(t)
	s, err := b.OpenUDSStream(context.Background(), srv.Path(), "localhost", nil, shortTimeouts)
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s, "hello over uds")
}

func testUDSMissingPath(t *testing.T, b api.Backend) {
	skipWithoutUnixSockets(t)
	_, err := b.OpenUDSStream(context.Background(), "/nonexistent/hioload-rt.sock", "localhost", nil, shortTimeouts)
	assert.ErrorIs(t, err, api.ErrPathNotFound)
}

func testSocksEcho(t *testing.T, b api.Backend) {
	upstream := echo.TCP(t)
	proxySrv := socksproxy.Start(t, socksproxy.WithUpstream(func(target string) (net.Conn, error) {
		return net.Dial("tcp", upstream.Addr().String())
	}))
	p := api.SocksProxy{Hostname: proxySrv.Host(), Port: proxySrv.Port(), Type: api.ProxySOCKS5}

	s, err := b.OpenSocksStream(context.Background(), "example.test", 443, p, nil, shortTimeouts)
	require.NoError(t, err)
	defer s.Close()

	roundTrip(t, s, "hello through socks")
	assert.Equal(t, []string{"example.test:443"}, proxySrv.Targets())
}

func testSocksRefused(t *testing.T, b api.Backend) {
	proxySrv := socksproxy.Start(t)
	p := api.SocksProxy{Hostname: proxySrv.Host(), Port: proxySrv.Port(), Type: api.ProxySOCKS5}
	_, err := b.OpenSocksStream(context.Background(), "example.test", 443, p, nil, shortTimeouts)
	assert.ErrorIs(t, err, api.ErrProxy)
}

func testLock(t *testing.T, b api.Backend) {
	ctx := context.Background()
	l, err := b.CreateLock(ctx)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(ctx))
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Acquire(short), context.DeadlineExceeded)

	require.NoError(t, l.Release())
	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Release())
	assert.Error(t, l.Release(), "releasing an unheld lock")
}

func testSemaphore(t *testing.T, b api.Backend) {
	ctx := context.Background()
	s, err := b.CreateSemaphore(ctx, 2, errPoolFull)
	require.NoError(t, err)

	require.NoError(t, s.Acquire(ctx, 0))
	require.NoError(t, s.Acquire(ctx, 0))
	assert.Same(t, errPoolFull, s.Acquire(ctx, 20*time.Millisecond))

	require.NoError(t, s.Release())
	require.NoError(t, s.Acquire(ctx, 20*time.Millisecond))
	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.Error(t, s.Release())
}

func testSemaphoreInvalid(t *testing.T, b api.Backend) {
	_, err := b.CreateSemaphore(context.Background(), 0, nil)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func testTime(t *testing.T, b api.Backend) {
	ctx := context.Background()
	t1, err := b.Time(ctx)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	t2, err := b.Time(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, t1, 0.0)
	assert.Greater(t, t2, t1)
}
