// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/momentics/hioload-rt/api"
)

var _ api.SocketStream = (*Stream)(nil)

// Stream is an in-memory api.SocketStream. Written data is captured and
// queued reads are served in order.
type Stream struct {
	// Call is the backend call that produced the stream, if any.
	Call Call

	mu       sync.Mutex
	sent     [][]byte
	recv     [][]byte
	closed   bool
	readErr  error
	writeErr error
	http2    bool
	dropped  bool
}

// NewStream returns an open stream.
func NewStream() *Stream { return &Stream{} }

// Feed queues data for Read.
func (s *Stream) Feed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recv = append(s.recv, append([]byte(nil), data...))
}

// Sent returns copies of every Write payload.
func (s *Stream) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// SetReadError makes subsequent reads fail with err.
func (s *Stream) SetReadError(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// SetWriteError makes subsequent writes fail with err.
func (s *Stream) SetWriteError(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// SetDropped controls IsConnectionDropped.
func (s *Stream) SetDropped(v bool) {
	s.mu.Lock()
	s.dropped = v
	s.mu.Unlock()
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Read implements api.SocketStream. An empty queue reads as EOF.
func (s *Stream) Read(ctx context.Context, n int, _ api.Timeouts) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, api.NewError(api.ErrCodeRead, "stream closed")
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	if len(s.recv) == 0 {
		return []byte{}, nil
	}
	head := s.recv[0]
	if len(head) > n {
		s.recv[0] = head[n:]
		return head[:n], nil
	}
	s.recv = s.recv[1:]
	return head, nil
}

// Write implements api.SocketStream.
func (s *Stream) Write(ctx context.Context, data []byte, _ api.Timeouts) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return api.NewError(api.ErrCodeWrite, "stream closed")
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.sent = append(s.sent, append([]byte(nil), data...))
	return nil
}

// StartTLS implements api.SocketStream. The upgraded stream negotiates
// h2 when the config offers it.
func (s *Stream) StartTLS(_ context.Context, hostname string, config *tls.Config, _ api.Timeouts) (api.SocketStream, error) {
	up := &Stream{Call: Call{Op: OpStartTLS, Args: []any{hostname, config}}}
	if config != nil {
		for _, p := range config.NextProtos {
			if p == "h2" {
				up.http2 = true
			}
		}
	}
	return up, nil
}

// HTTPVersion implements api.SocketStream.
func (s *Stream) HTTPVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http2 {
		return "HTTP/2"
	}
	return "HTTP/1.1"
}

// IsConnectionDropped implements api.SocketStream.
func (s *Stream) IsConnectionDropped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.dropped
}

// Close implements api.SocketStream.
func (s *Stream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
