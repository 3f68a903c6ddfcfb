//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// File: internal/netstream/dropped_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Idle-connection liveness probe using a non-blocking MSG_PEEK.

package netstream

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// peekDropped reports true when the socket is readable while idle: either
// the peer closed it, an error is pending, or unsolicited bytes arrived.
func peekDropped(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return false
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return true
	}
	dropped := false
	var buf [1]byte
	err = raw.Read(func(fd uintptr) bool {
		// Any result but EAGAIN counts: n == 0 is an orderly shutdown,
		// n > 0 is data nobody asked for.
		_, _, rerr := unix.Recvfrom(int(fd), buf[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		dropped = rerr != unix.EAGAIN && rerr != unix.EWOULDBLOCK
		return true
	})
	return dropped || err != nil
}
