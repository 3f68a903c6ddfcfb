// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rt/api"
)

// Factory counts backend constructions. Use its New method as a registry
// entry.
type Factory struct {
	// Name is given to every backend built.
	Name string
	// Delay widens the construction window for race tests.
	Delay time.Duration

	count atomic.Int64
	mu    sync.Mutex
	built []*Backend
}

// NewFactory returns a factory for backends named name.
func NewFactory(name string) *Factory {
	return &Factory{Name: name}
}

// New constructs and records a backend.
func (f *Factory) New() api.Backend {
	f.count.Add(1)
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	b := NewBackend(f.Name)
	f.mu.Lock()
	f.built = append(f.built, b)
	f.mu.Unlock()
	return b
}

// Count is the number of constructions so far.
func (f *Factory) Count() int { return int(f.count.Load()) }

// Built returns every backend constructed.
func (f *Factory) Built() []*Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Backend(nil), f.built...)
}
