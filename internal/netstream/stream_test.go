package netstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/testutil/tlstest"
)

// loopbackPair returns both ends of a fresh loopback TCP connection.
func loopbackPair(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()
	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server = <-accepted
	require.NotNil(t, server)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client, server
}

func TestStream_ReadWrite(t *testing.T) {
	client, server := loopbackPair(t)
	s := New(client)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []byte("ping"), api.Timeouts{api.PhaseWrite: time.Second}))
	buf := make([]byte, 4)
	_, err := server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	_, err = server.Write([]byte("pong"))
	require.NoError(t, err)
	got, err := s.Read(ctx, 16, api.Timeouts{api.PhaseRead: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "pong", string(got))
}

func TestStream_ReadTimeout(t *testing.T) {
	client, _ := loopbackPair(t)
	s := New(client)

	_, err := s.Read(context.Background(), 8, api.Timeouts{api.PhaseRead: 20 * time.Millisecond})
	assert.ErrorIs(t, err, api.ErrReadTimeout)
}

func TestStream_ReadEOF(t *testing.T) {
	client, server := loopbackPair(t)
	s := New(client)
	require.NoError(t, server.Close())

	got, err := s.Read(context.Background(), 8, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStream_ReadCancelled(t *testing.T) {
	client, _ := loopbackPair(t)
	s := New(client)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := s.Read(ctx, 8, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_InvalidReadSize(t *testing.T) {
	client, _ := loopbackPair(t)
	_, err := New(client).Read(context.Background(), 0, nil)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestStream_IsConnectionDropped(t *testing.T) {
	client, server := loopbackPair(t)
	s := New(client)
	assert.False(t, s.IsConnectionDropped())

	require.NoError(t, server.Close())
	assert.Eventually(t, s.IsConnectionDropped, time.Second, 5*time.Millisecond)
}

func TestStream_StartTLSNegotiatesHTTP2(t *testing.T) {
	ca := tlstest.NewAuthority(t, "test-ca")
	client, server := loopbackPair(t)

	srvCfg := ca.ServerConfig(t, []string{"example.test"}, nil, "h2", "http/1.1")
	srvErr := make(chan error, 1)
	go func() { srvErr <- tls.Server(server, srvCfg).Handshake() }()

	upgraded, err := New(client).StartTLS(context.Background(), "example.test", ca.ClientConfig(), api.Timeouts{api.PhaseConnect: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, <-srvErr)
	assert.Equal(t, "HTTP/2", upgraded.HTTPVersion())
}

func TestStream_StartTLSHTTP11(t *testing.T) {
	ca := tlstest.NewAuthority(t, "test-ca")
	client, server := loopbackPair(t)

	srvCfg := ca.ServerConfig(t, []string{"example.test"}, nil, "http/1.1")
	go func() { _ = tls.Server(server, srvCfg).Handshake() }()

	upgraded, err := New(client).StartTLS(context.Background(), "example.test", ca.ClientConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1", upgraded.HTTPVersion())
}

func TestStream_StartTLSUntrusted(t *testing.T) {
	ca := tlstest.NewAuthority(t, "test-ca")
	other := tlstest.NewAuthority(t, "other-ca")
	client, server := loopbackPair(t)

	srvCfg := ca.ServerConfig(t, []string{"example.test"}, nil)
	go func() { _ = tls.Server(server, srvCfg).Handshake() }()

	_, err := New(client).StartTLS(context.Background(), "example.test", other.ClientConfig(), nil)
	assert.ErrorIs(t, err, api.ErrConnect)
}

func TestStream_StartTLSTimeout(t *testing.T) {
	ca := tlstest.NewAuthority(t, "test-ca")
	client, _ := loopbackPair(t) // server never answers

	_, err := New(client).StartTLS(context.Background(), "example.test", ca.ClientConfig(), api.Timeouts{api.PhaseConnect: 30 * time.Millisecond})
	assert.ErrorIs(t, err, api.ErrConnectTimeout)
}

func TestClientConfig_FillsDefaults(t *testing.T) {
	cfg := ClientConfig(nil, "example.test")
	assert.Equal(t, "example.test", cfg.ServerName)
	assert.Equal(t, api.ALPNProtocols, cfg.NextProtos)

	base := &tls.Config{ServerName: "pinned", NextProtos: []string{"http/1.1"}}
	cfg = ClientConfig(base, "example.test")
	assert.Equal(t, "pinned", cfg.ServerName)
	assert.Equal(t, []string{"http/1.1"}, cfg.NextProtos)
	assert.NotSame(t, base, cfg)
}

func TestMapConnectError(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, MapConnectError(ctx, nil))
	assert.ErrorIs(t, MapConnectError(ctx, context.DeadlineExceeded), api.ErrConnectTimeout)
	assert.ErrorIs(t, MapConnectError(ctx, syscall.ECONNREFUSED), api.ErrConnect)

	classified := fmt.Errorf("x: %w", api.Wrap(api.ErrProxy, errors.New("auth")))
	assert.Equal(t, classified, MapConnectError(ctx, classified), "already classified errors pass through")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, context.Canceled, MapConnectError(cancelled, errors.New("dial: operation was canceled")))
}

func TestMapUnixConnectError(t *testing.T) {
	err := MapUnixConnectError(context.Background(), "/nope.sock", &net.OpError{Op: "dial", Net: "unix", Err: fs.ErrNotExist})
	assert.ErrorIs(t, err, api.ErrPathNotFound)
}

func TestASCIIHost(t *testing.T) {
	cases := map[string]string{
		"example.test":   "example.test",
		"bücher.example": "xn--bcher-kva.example",
		"127.0.0.1":      "127.0.0.1",
		"[::1]":          "::1",
		"fe80::1%eth0":   "fe80::1%eth0",
	}
	for in, want := range cases {
		got, err := ASCIIHost(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ASCIIHost("")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestHostPort(t *testing.T) {
	addr, err := HostPort("::1", 443)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:443", addr)

	_, err = HostPort("example.test", 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestLocalTCPAddr(t *testing.T) {
	a, err := LocalTCPAddr("")
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = LocalTCPAddr("127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", a.String())

	a, err = LocalTCPAddr("127.0.0.1:4000")
	require.NoError(t, err)
	assert.Equal(t, 4000, a.Port)

	a, err = LocalTCPAddr("[fe80::1%lo]:0")
	require.NoError(t, err)
	assert.Equal(t, "lo", a.Zone)

	_, err = LocalTCPAddr("localhost")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestSplitZone(t *testing.T) {
	addr, zone := SplitZone("fe80::1%eth0")
	assert.Equal(t, "fe80::1", addr)
	assert.Equal(t, "eth0", zone)

	addr, zone = SplitZone("10.0.0.1")
	assert.Equal(t, "10.0.0.1", addr)
	assert.Empty(t, zone)
}

type cancelOnRead struct {
	net.Conn
	cancel context.CancelFunc
}

func (c cancelOnRead) Read(b []byte) (int, error) {
	c.cancel()
	return copy(b, "late"), nil
}

func TestStream_ReadKeepsBytesWhenCancelledMidRead(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	s := New(cancelOnRead{Conn: client, cancel: cancel})
	defer s.Close()

	got, err := s.Read(ctx, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, "late", string(got))
	assert.Error(t, ctx.Err())
}
