// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the socket stream abstraction returned by every open-* operation,
// independent of the runtime that produced it.

package api

import (
	"context"
	"crypto/tls"
)

// ALPN identifiers offered on every client handshake.
var ALPNProtocols = []string{"h2", "http/1.1"}

// SocketStream is an open bidirectional byte stream. The caller owns it
// and must Close it.
type SocketStream interface {
	// Read returns up to n bytes, bounded by the read timeout.
	// An empty slice with nil error means the peer closed the stream.
	Read(ctx context.Context, n int, timeouts Timeouts) ([]byte, error)

	// Write sends all of data, bounded by the write timeout.
	Write(ctx context.Context, data []byte, timeouts Timeouts) error

	// StartTLS upgrades the stream, bounded by the connect timeout.
	// The returned stream replaces the receiver.
	StartTLS(ctx context.Context, hostname string, config *tls.Config, timeouts Timeouts) (SocketStream, error)

	// HTTPVersion reports "HTTP/2" when h2 was negotiated, else "HTTP/1.1".
	HTTPVersion() string

	// IsConnectionDropped reports whether the peer went away or sent
	// unexpected data while the stream was idle.
	IsConnectionDropped() bool

	// Close releases the stream.
	Close() error
}
