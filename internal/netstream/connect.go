// File: internal/netstream/connect.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Helpers shared by every backend when establishing a connection.

package netstream

import (
	"context"
	"crypto/tls"
	"errors"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/momentics/hioload-rt/api"
)

// ConnectContext bounds ctx by the connect timeout, if any.
func ConnectContext(ctx context.Context, timeouts api.Timeouts) (context.Context, context.CancelFunc) {
	if d, ok := timeouts.Get(api.PhaseConnect); ok {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// MapConnectError classifies a dial or handshake failure. Cancellation of
// the caller's own ctx is returned as ctx.Err() so it propagates unchanged.
func MapConnectError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return api.Wrap(api.ErrConnectTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return api.Wrap(api.ErrConnectTimeout, err)
	}
	return api.Wrap(api.ErrConnect, err)
}

// MapUnixConnectError is MapConnectError with a missing socket path
// reported as api.ErrPathNotFound.
func MapUnixConnectError(ctx context.Context, path string, err error) error {
	if err != nil && ctx.Err() == nil && errors.Is(err, fs.ErrNotExist) {
		return api.Wrap(api.ErrPathNotFound, err).WithContext("path", path)
	}
	return MapConnectError(ctx, err)
}

// ASCIIHost converts hostname to its ASCII (punycode) form. IP literals,
// bracketed or not, are returned without brackets.
func ASCIIHost(hostname string) (string, error) {
	host := strings.TrimSuffix(strings.TrimPrefix(hostname, "["), "]")
	if host == "" {
		return "", api.NewError(api.ErrCodeInvalidArgument, "empty hostname")
	}
	if ip, _ := SplitZone(host); net.ParseIP(ip) != nil {
		return host, nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", api.Wrap(api.ErrInvalidArgument, err).WithContext("hostname", hostname)
	}
	return ascii, nil
}

// SplitZone separates an IPv6 zone ("fe80::1%eth0") from the address.
func SplitZone(host string) (addr, zone string) {
	if i := strings.LastIndexByte(host, '%'); i > 0 {
		return host[:i], host[i+1:]
	}
	return host, ""
}

// HostPort validates hostname and port and joins them into a dial address.
func HostPort(hostname string, port int) (string, error) {
	if port <= 0 || port > 65535 {
		return "", api.NewError(api.ErrCodeInvalidArgument, "port out of range").WithContext("port", port)
	}
	host, err := ASCIIHost(hostname)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// LocalTCPAddr parses an optional local bind address. An address without
// a port binds an ephemeral port.
func LocalTCPAddr(localAddress string) (*net.TCPAddr, error) {
	if localAddress == "" {
		return nil, nil
	}
	host, port := localAddress, "0"
	if h, p, err := net.SplitHostPort(localAddress); err == nil {
		host, port = h, p
	}
	addr, zone := SplitZone(host)
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "local address must be an IP literal").
			WithContext("local_address", localAddress)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, api.Wrap(api.ErrInvalidArgument, err).WithContext("local_address", localAddress)
	}
	return &net.TCPAddr{IP: ip, Port: p, Zone: zone}, nil
}

// Establish wraps a freshly dialled conn and, when tlsConfig is set,
// upgrades it to TLS towards hostname. On failure conn is closed.
func Establish(ctx context.Context, conn net.Conn, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	if tlsConfig == nil {
		return New(conn), nil
	}
	s, err := StartTLS(ctx, conn, hostname, tlsConfig, timeouts)
	if err != nil {
		return nil, err
	}
	return s, nil
}
