//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

// File: internal/netstream/dropped_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netstream

import "net"

// peekDropped is not implemented on this platform; streams are assumed live.
func peekDropped(net.Conn) bool { return false }
