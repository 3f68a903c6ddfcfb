// File: internal/socks/socks.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package socks opens proxied streams. The TCP hop to the proxy is made by
// the calling backend's own dialer so it obeys that runtime's rules; the
// SOCKS5 exchange itself is delegated to golang.org/x/net/proxy.

package socks

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"golang.org/x/net/proxy"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/netstream"
)

// DialFunc opens the raw TCP connection to the proxy.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// forwardDialer remembers whether the proxy hop succeeded so handshake
// failures can be told apart from connect failures.
type forwardDialer struct {
	dial      DialFunc
	connected bool
}

func (f *forwardDialer) Dial(network, address string) (net.Conn, error) {
	return f.DialContext(context.Background(), network, address)
}

func (f *forwardDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	c, err := f.dial(ctx, network, address)
	if err == nil {
		f.connected = true
	}
	return c, err
}

// Dial connects to hostname:port through p. ctx bounds the whole exchange.
func Dial(ctx context.Context, dial DialFunc, hostname string, port int, p api.SocksProxy) (net.Conn, error) {
	if _, err := api.ParseProxyType(string(p.Type)); err != nil {
		return nil, err
	}
	target, err := netstream.HostPort(hostname, port)
	if err != nil {
		return nil, err
	}
	proxyAddr, err := netstream.HostPort(p.Hostname, p.Port)
	if err != nil {
		return nil, err
	}

	var auth *proxy.Auth
	if c := p.Credentials; c != nil && (c.Username != "" || c.Password != "") {
		auth = &proxy.Auth{User: c.Username, Password: c.Password}
	}
	fwd := &forwardDialer{dial: dial}
	d, err := proxy.SOCKS5("tcp", proxyAddr, auth, fwd)
	if err != nil {
		return nil, api.Wrap(api.ErrProxy, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, api.NewError(api.ErrCodeInternal, "socks dialer does not support contexts")
	}

	conn, err := cd.DialContext(ctx, "tcp", target)
	if err == nil {
		return conn, nil
	}
	switch {
	case ctx.Err() == context.Canceled:
		return nil, ctx.Err()
	case !fwd.connected:
		return nil, netstream.MapConnectError(ctx, err)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return nil, api.Wrap(api.ErrConnectTimeout, err)
	default:
		return nil, api.Wrap(api.ErrProxy, err).WithContext("proxy", proxyAddr)
	}
}

// OpenStream dials through the proxy and optionally upgrades to TLS
// towards hostname. The connect timeout covers the proxy hop and the
// SOCKS exchange; the TLS handshake gets its own connect budget.
func OpenStream(ctx context.Context, dial DialFunc, hostname string, port int, p api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	cctx, cancel := netstream.ConnectContext(ctx, timeouts)
	conn, err := Dial(cctx, dial, hostname, port, p)
	cancel()
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return netstream.Establish(ctx, conn, hostname, tlsConfig, timeouts)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
