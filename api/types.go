// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

import (
	"strings"
	"time"
)

// RuntimeID names a concurrency runtime able to drive tasks.
type RuntimeID string

const (
	// RuntimeGoroutine is the plain Go scheduler.
	RuntimeGoroutine RuntimeID = "goroutine"
	// RuntimeEventLoop is the executor-driven task loop.
	RuntimeEventLoop RuntimeID = "eventloop"
	// RuntimeReactor is the readiness-driven socket reactor.
	RuntimeReactor RuntimeID = "reactor"
)

func (r RuntimeID) String() string {
	if r == "" {
		return "unknown"
	}
	return string(r)
}

// TimeoutPhase names a phase of a network operation that may be bounded.
type TimeoutPhase string

const (
	PhaseConnect TimeoutPhase = "connect"
	PhaseRead    TimeoutPhase = "read"
	PhaseWrite   TimeoutPhase = "write"
	PhasePool    TimeoutPhase = "pool"
)

// Timeouts maps phases to limits. A missing or non-positive entry means
// the phase is unbounded.
type Timeouts map[TimeoutPhase]time.Duration

// Get returns the limit for phase, if any.
func (t Timeouts) Get(phase TimeoutPhase) (time.Duration, bool) {
	d, ok := t[phase]
	if !ok || d <= 0 {
		return 0, false
	}
	return d, true
}

// Deadline returns now+limit for phase, or the zero time when unbounded.
func (t Timeouts) Deadline(phase TimeoutPhase, now time.Time) time.Time {
	d, ok := t.Get(phase)
	if !ok {
		return time.Time{}
	}
	return now.Add(d)
}

// ProxyType identifies the proxy protocol variant.
type ProxyType string

const ProxySOCKS5 ProxyType = "SOCKS5"

// ParseProxyType normalises s; unknown variants return ErrUnsupportedProxy.
func ParseProxyType(s string) (ProxyType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SOCKS5", "SOCKS5H":
		return ProxySOCKS5, nil
	default:
		return "", NewError(ErrCodeUnsupportedProxy, ErrUnsupportedProxy.Message).WithContext("proxy_type", s)
	}
}

// SocksCredentials carries optional proxy authentication.
// UserID is only meaningful for SOCKS4 and is ignored by SOCKS5.
type SocksCredentials struct {
	Username string
	Password string
	UserID   string
}

// SocksProxy describes the proxy hop of a SOCKS-proxied stream.
type SocksProxy struct {
	Hostname    string
	Port        int
	Type        ProxyType
	Credentials *SocksCredentials
}
