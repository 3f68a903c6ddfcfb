// File: dispatch/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch

import (
	"slices"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/backend/loop"
	"github.com/momentics/hioload-rt/backend/native"
	"github.com/momentics/hioload-rt/backend/reactor"
)

// Factory builds a backend. It must be cheap and perform no I/O.
type Factory func() api.Backend

// Registry maps runtime identifiers to backend factories.
type Registry map[api.RuntimeID]Factory

// DefaultRegistry returns the table of runtimes shipped with the module.
func DefaultRegistry() Registry {
	return Registry{
		api.RuntimeGoroutine: native.New,
		api.RuntimeEventLoop: loop.New,
		api.RuntimeReactor:   reactor.New,
	}
}

// Runtimes lists the registered identifiers in sorted order.
func (r Registry) Runtimes() []api.RuntimeID {
	ids := make([]api.RuntimeID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r Registry) clone() Registry {
	out := make(Registry, len(r))
	for id, f := range r {
		out[id] = f
	}
	return out
}
