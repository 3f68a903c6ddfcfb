// Package echo runs loopback echo servers for backend tests.
package echo

import (
	"crypto/tls"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Server echoes every byte it receives until the peer closes.
type Server struct {
	ln net.Listener
}

// TCP starts a plain echo server on 127.0.0.1.
func TCP(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen tcp: %v", err)
	}
	return serve(t, ln)
}

// TLS starts an echo server that terminates TLS with cfg.
func TLS(t testing.TB, cfg *tls.Config) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen tcp: %v", err)
	}
	return serve(t, tls.NewListener(ln, cfg))
}

// Unix starts an echo server on a Unix domain socket. The socket lives in
// a short temp dir so the path stays under sun_path limits.
func Unix(t testing.TB) *Server {
	t.Helper()
	dir, err := os.MkdirTemp("", "rt")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	ln, err := net.Listen("unix", filepath.Join(dir, "echo.sock"))
	if err != nil {
		t.Fatalf("listen unix: %v", err)
	}
	return serve(t, ln)
}

// Silent starts a TCP server that accepts and then never writes.
func Silent(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen tcp: %v", err)
	}
	s := &Server{ln: ln}
	var (
		mu   sync.Mutex
		held []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			_ = c.Close()
		}
	})
	return s
}

func serve(t testing.TB, ln net.Listener) *Server {
	s := &Server{ln: ln}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				_, _ = io.Copy(c, c)
			}()
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

// Addr is the listener address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Host is the listening IP for TCP servers.
func (s *Server) Host() string { return s.ln.Addr().(*net.TCPAddr).IP.String() }

// Port is the listening port for TCP servers.
func (s *Server) Port() int { return s.ln.Addr().(*net.TCPAddr).Port }

// Path is the socket path for Unix servers.
func (s *Server) Path() string { return s.ln.Addr().String() }
