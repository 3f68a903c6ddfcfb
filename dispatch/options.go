// File: dispatch/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/sniff"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSniffer replaces the default context sniffer.
func WithSniffer(s sniff.Sniffer) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sniffer = s
		}
	}
}

// WithRuntime pins the dispatcher to id; the sniffer is never consulted.
func WithRuntime(id api.RuntimeID) Option {
	return func(d *Dispatcher) { d.pinned = id }
}

// WithRegistry replaces the runtime table. The table is copied.
func WithRegistry(r Registry) Option {
	return func(d *Dispatcher) { d.registry = r.clone() }
}

// WithLogger sets the base logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics records resolutions and per-operation calls into reg.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(d *Dispatcher) { d.metrics = reg }
}

// WithProbes publishes the bound runtime under "dispatch.<id>.runtime".
func WithProbes(dp *control.DebugProbes) Option {
	return func(d *Dispatcher) { d.probes = dp }
}
