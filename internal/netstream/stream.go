// File: internal/netstream/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stream adapts a net.Conn to api.SocketStream. Reads and writes are
// serialised independently; every call derives its deadline from the
// per-phase timeouts and aborts early when the caller's context ends.

package netstream

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/momentics/hioload-rt/api"
)

var _ api.SocketStream = (*Stream)(nil)

// aLongTimeAgo is a non-zero time in the past, used to unblock pending I/O.
var aLongTimeAgo = time.Unix(1, 0)

// Stream is an api.SocketStream over a net.Conn.
type Stream struct {
	conn    net.Conn
	readMu  sync.Mutex
	writeMu sync.Mutex
}

// New wraps conn. The stream takes ownership of conn.
func New(conn net.Conn) *Stream {
	return &Stream{conn: conn}
}

// Conn exposes the wrapped connection.
func (s *Stream) Conn() net.Conn { return s.conn }

// Read implements api.SocketStream.
func (s *Stream) Read(ctx context.Context, n int, timeouts api.Timeouts) ([]byte, error) {
	if n <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "read size must be positive").WithContext("n", n)
	}
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if err := s.conn.SetReadDeadline(timeouts.Deadline(api.PhaseRead, time.Now())); err != nil {
		return nil, api.Wrap(api.ErrRead, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = s.conn.SetReadDeadline(aLongTimeAgo) })
	buf := scratch.Get(n)
	defer scratch.Put(buf)
	k, err := s.conn.Read(buf)
	if !stop() && k == 0 {
		return nil, ctx.Err()
	}
	if k > 0 {
		// Bytes already consumed from the socket are returned even when
		// ctx was cancelled or the read also reported an error.
		return append([]byte(nil), buf[:k]...), nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []byte{}, nil
		}
		return nil, mapIOError(err, api.ErrReadTimeout, api.ErrRead)
	}
	return []byte{}, nil
}

// Write implements api.SocketStream.
func (s *Stream) Write(ctx context.Context, data []byte, timeouts api.Timeouts) error {
	if len(data) == 0 {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(timeouts.Deadline(api.PhaseWrite, time.Now())); err != nil {
		return api.Wrap(api.ErrWrite, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = s.conn.SetWriteDeadline(aLongTimeAgo) })
	_, err := s.conn.Write(data)
	if !stop() {
		return ctx.Err()
	}
	if err != nil {
		return mapIOError(err, api.ErrWriteTimeout, api.ErrWrite)
	}
	return nil
}

// StartTLS implements api.SocketStream.
func (s *Stream) StartTLS(ctx context.Context, hostname string, config *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	upgraded, err := StartTLS(ctx, s.conn, hostname, config, timeouts)
	if err != nil {
		return nil, err
	}
	return upgraded, nil
}

// HTTPVersion implements api.SocketStream.
func (s *Stream) HTTPVersion() string {
	if tc, ok := s.conn.(*tls.Conn); ok && tc.ConnectionState().NegotiatedProtocol == "h2" {
		return "HTTP/2"
	}
	return "HTTP/1.1"
}

// IsConnectionDropped implements api.SocketStream.
func (s *Stream) IsConnectionDropped() bool {
	conn := s.conn
	if tc, ok := conn.(*tls.Conn); ok {
		conn = tc.NetConn()
	}
	return peekDropped(conn)
}

// Close implements api.SocketStream.
func (s *Stream) Close() error {
	return s.conn.Close()
}

// StartTLS runs a client handshake over conn bounded by the connect
// timeout and returns the wrapped stream. On failure conn is closed.
func StartTLS(ctx context.Context, conn net.Conn, hostname string, config *tls.Config, timeouts api.Timeouts) (*Stream, error) {
	cfg := ClientConfig(config, hostname)
	hctx, cancel := ConnectContext(ctx, timeouts)
	defer cancel()

	tc := tls.Client(conn, cfg)
	if err := tc.HandshakeContext(hctx); err != nil {
		_ = conn.Close()
		return nil, MapConnectError(ctx, err)
	}
	return New(tc), nil
}

// ClientConfig clones config, filling SNI and ALPN when unset.
func ClientConfig(config *tls.Config, hostname string) *tls.Config {
	var cfg *tls.Config
	if config != nil {
		cfg = config.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = hostname
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = append([]string(nil), api.ALPNProtocols...)
	}
	return cfg
}

func mapIOError(err error, timeoutKind, failKind *api.Error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return api.Wrap(timeoutKind, err)
	}
	return api.Wrap(failKind, err)
}
