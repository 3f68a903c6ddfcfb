// File: dispatch/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package dispatch forwards stream and primitive operations to the backend
// of whichever runtime drives the first caller. The backend is chosen
// lazily, exactly once per Dispatcher, and reused for every later call.
//
// A process that mixes runtimes must use one Dispatcher per runtime: once
// bound, a Dispatcher ignores the runtime of later callers.

package dispatch

import (
	"context"
	"crypto/tls"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/internal/logging"
	"github.com/momentics/hioload-rt/sniff"
)

var _ api.Backend = (*Dispatcher)(nil)

// Operation names used for metrics.
const (
	OpOpenTCPStream   = "open_tcp_stream"
	OpOpenUDSStream   = "open_uds_stream"
	OpOpenSocksStream = "open_socks_stream"
	OpCreateLock      = "create_lock"
	OpCreateSemaphore = "create_semaphore"
	OpTime            = "time"
)

type binding struct {
	runtime api.RuntimeID
	backend api.Backend
}

// Dispatcher is a lazily bound api.Backend.
type Dispatcher struct {
	id       uuid.UUID
	sniffer  sniff.Sniffer
	pinned   api.RuntimeID
	registry Registry
	logger   zerolog.Logger
	metrics  *control.MetricsRegistry
	probes   *control.DebugProbes

	// bound is written once, under mu.
	bound atomic.Pointer[binding]
	mu    sync.Mutex
}

// New returns an unbound dispatcher over DefaultRegistry and the context
// sniffer unless options say otherwise.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		id:       uuid.New(),
		sniffer:  sniff.Default,
		registry: DefaultRegistry(),
		logger:   logging.Component("dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With().Str("dispatcher", d.id.String()).Logger()
	if d.probes != nil {
		d.probes.RegisterProbe("dispatch."+d.id.String()+".runtime", func() any {
			id, _ := d.Runtime()
			return id.String()
		})
	}
	return d
}

// ID identifies the dispatcher in logs and probes.
func (d *Dispatcher) ID() uuid.UUID { return d.id }

// Runtime reports the bound runtime, if resolution has happened.
func (d *Dispatcher) Runtime() (api.RuntimeID, bool) {
	if b := d.bound.Load(); b != nil {
		return b.runtime, true
	}
	return "", false
}

// Backend resolves, if needed, and returns the bound backend.
func (d *Dispatcher) Backend(ctx context.Context) (api.Backend, error) {
	return d.resolve(ctx)
}

func (d *Dispatcher) resolve(ctx context.Context) (api.Backend, error) {
	if b := d.bound.Load(); b != nil {
		return b.backend, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if b := d.bound.Load(); b != nil {
		return b.backend, nil
	}

	id := d.pinned
	if id == "" {
		sniffed, err := d.sniffer.CurrentRuntime(ctx)
		if err != nil {
			d.recordFailure()
			d.logger.Debug().Err(err).Msg("runtime detection failed")
			return nil, err
		}
		id = sniffed
	}

	factory := d.registry[id]
	if factory == nil {
		d.recordFailure()
		d.logger.Warn().Str("runtime", id.String()).Msg("unsupported runtime")
		return nil, api.NewError(api.ErrCodeUnsupportedRuntime, api.ErrUnsupportedRuntime.Message).
			WithContext("runtime", string(id))
	}

	backend := factory()
	d.bound.Store(&binding{runtime: id, backend: backend})
	if d.metrics != nil {
		d.metrics.Inc(control.MetricResolutions)
		d.metrics.Set(control.MetricRuntime, string(id))
	}
	d.logger.Debug().Str("runtime", id.String()).Msg("runtime resolved")
	return backend, nil
}

func (d *Dispatcher) recordFailure() {
	if d.metrics != nil {
		d.metrics.Inc(control.MetricResolutionFailures)
	}
}

func (d *Dispatcher) backendFor(ctx context.Context, op string) (api.Backend, error) {
	b, err := d.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if d.metrics != nil {
		d.metrics.Inc(control.MetricOpPrefix + op)
	}
	return b, nil
}

// OpenTCPStream implements api.Backend.
func (d *Dispatcher) OpenTCPStream(ctx context.Context, hostname string, port int, tlsConfig *tls.Config, timeouts api.Timeouts, localAddress string) (api.SocketStream, error) {
	b, err := d.backendFor(ctx, OpOpenTCPStream)
	if err != nil {
		return nil, err
	}
	return b.OpenTCPStream(ctx, hostname, port, tlsConfig, timeouts, localAddress)
}

// OpenUDSStream implements api.Backend.
func (d *Dispatcher) OpenUDSStream(ctx context.Context, path string, hostname string, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	b, err := d.backendFor(ctx, OpOpenUDSStream)
	if err != nil {
		return nil, err
	}
	return b.OpenUDSStream(ctx, path, hostname, tlsConfig, timeouts)
}

// OpenSocksStream implements api.Backend.
func (d *Dispatcher) OpenSocksStream(ctx context.Context, hostname string, port int, proxy api.SocksProxy, tlsConfig *tls.Config, timeouts api.Timeouts) (api.SocketStream, error) {
	b, err := d.backendFor(ctx, OpOpenSocksStream)
	if err != nil {
		return nil, err
	}
	return b.OpenSocksStream(ctx, hostname, port, proxy, tlsConfig, timeouts)
}

// CreateLock implements api.Backend.
func (d *Dispatcher) CreateLock(ctx context.Context) (api.Lock, error) {
	b, err := d.backendFor(ctx, OpCreateLock)
	if err != nil {
		return nil, err
	}
	return b.CreateLock(ctx)
}

// CreateSemaphore implements api.Backend.
func (d *Dispatcher) CreateSemaphore(ctx context.Context, maxValue int, exceeded error) (api.Semaphore, error) {
	b, err := d.backendFor(ctx, OpCreateSemaphore)
	if err != nil {
		return nil, err
	}
	return b.CreateSemaphore(ctx, maxValue, exceeded)
}

// Time implements api.Backend.
func (d *Dispatcher) Time(ctx context.Context) (float64, error) {
	b, err := d.backendFor(ctx, OpTime)
	if err != nil {
		return 0, err
	}
	return b.Time(ctx)
}

// Close releases the bound backend if it holds resources. The dispatcher
// stays bound.
func (d *Dispatcher) Close() error {
	b := d.bound.Load()
	if b == nil {
		return nil
	}
	if c, ok := b.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
