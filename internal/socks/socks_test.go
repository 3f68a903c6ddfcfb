package socks

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/testutil/echo"
	"github.com/momentics/hioload-rt/internal/testutil/socksproxy"
)

func plainDial(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

func proxyFor(s *socksproxy.Server, creds *api.SocksCredentials) api.SocksProxy {
	return api.SocksProxy{Hostname: s.Host(), Port: s.Port(), Type: api.ProxySOCKS5, Credentials: creds}
}

func TestOpenStream_NoAuth(t *testing.T) {
	srv := socksproxy.Start(t, socksproxy.WithUpstream(socksproxy.EchoUpstream()))
	ctx := context.Background()
	to := api.Timeouts{api.PhaseConnect: 2 * time.Second, api.PhaseRead: 2 * time.Second}

	s, err := OpenStream(ctx, plainDial, "example.com", 80, proxyFor(srv, nil), nil, to)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(ctx, []byte("hello"), to))
	got, err := s.Read(ctx, 16, to)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, []string{"example.com:80"}, srv.Targets())
}

func TestOpenStream_UsernamePassword(t *testing.T) {
	srv := socksproxy.Start(t,
		socksproxy.WithAuth("alice", "secret"),
		socksproxy.WithUpstream(socksproxy.EchoUpstream()))

	s, err := OpenStream(context.Background(), plainDial, "example.com", 443,
		proxyFor(srv, &api.SocksCredentials{Username: "alice", Password: "secret"}), nil, nil)
	require.NoError(t, err)
	_ = s.Close()
}

func TestOpenStream_BadCredentials(t *testing.T) {
	srv := socksproxy.Start(t,
		socksproxy.WithAuth("alice", "secret"),
		socksproxy.WithUpstream(socksproxy.EchoUpstream()))

	_, err := OpenStream(context.Background(), plainDial, "example.com", 443,
		proxyFor(srv, &api.SocksCredentials{Username: "alice", Password: "wrong"}), nil, nil)
	assert.ErrorIs(t, err, api.ErrProxy)
}

func TestOpenStream_AuthRequiredButMissing(t *testing.T) {
	srv := socksproxy.Start(t, socksproxy.WithAuth("alice", "secret"))

	_, err := OpenStream(context.Background(), plainDial, "example.com", 443, proxyFor(srv, nil), nil, nil)
	assert.ErrorIs(t, err, api.ErrProxy)
}

func TestOpenStream_RemoteRefused(t *testing.T) {
	srv := socksproxy.Start(t) // no upstream: every CONNECT is refused

	_, err := OpenStream(context.Background(), plainDial, "example.com", 80, proxyFor(srv, nil), nil, nil)
	assert.ErrorIs(t, err, api.ErrProxy)
}

func TestOpenStream_ProxyUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	p := api.SocksProxy{Hostname: "127.0.0.1", Port: port, Type: api.ProxySOCKS5}
	_, err = OpenStream(context.Background(), plainDial, "example.com", 80, p, nil, nil)
	assert.ErrorIs(t, err, api.ErrConnect)
	assert.NotErrorIs(t, err, api.ErrProxy)
}

func TestOpenStream_UnsupportedProxyType(t *testing.T) {
	p := api.SocksProxy{Hostname: "127.0.0.1", Port: 1080, Type: "SOCKS4"}
	_, err := OpenStream(context.Background(), plainDial, "example.com", 80, p, nil, nil)
	assert.ErrorIs(t, err, api.ErrUnsupportedProxy)
}

func TestOpenStream_HandshakeTimeout(t *testing.T) {
	silent := echo.Silent(t) // accepts but never speaks SOCKS
	p := api.SocksProxy{Hostname: silent.Host(), Port: silent.Port(), Type: api.ProxySOCKS5}
	_, err := OpenStream(context.Background(), plainDial, "example.com", 80, p, nil,
		api.Timeouts{api.PhaseConnect: 50 * time.Millisecond})
	assert.ErrorIs(t, err, api.ErrConnectTimeout)
}

func TestOpenStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := socksproxy.Start(t, socksproxy.WithUpstream(socksproxy.EchoUpstream()))

	_, err := OpenStream(ctx, plainDial, "example.com", 80, proxyFor(srv, nil), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
