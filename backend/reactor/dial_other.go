//go:build !linux
// +build !linux

// File: backend/reactor/dial_other.go
// Author: momentics <momentics@gmail.com>
//
// Portable connects for platforms without the epoll poller.

package reactor

import (
	"context"
	"net"
	"strconv"
	"time"
)

func dialTCP(ctx context.Context, host string, port int, local *net.TCPAddr) (net.Conn, error) {
	var d net.Dialer
	if local != nil {
		d.LocalAddr = local
	}
	return d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

func dialUnix(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

var processStart = time.Now()

func monotonic() time.Duration { return time.Since(processStart) }
