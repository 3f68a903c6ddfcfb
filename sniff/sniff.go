// File: sniff/sniff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sniff reports which concurrency runtime drives the calling task.
//
// Runtimes mark the context of every task they launch with Enter. Callers
// that know better can pin the answer with WithRuntime. Detection reads
// only the context it is handed; there is no process-wide state.

package sniff

import (
	"context"
	"slices"

	"github.com/momentics/hioload-rt/api"
)

//go:generate mockgen -destination=../mocks/mock_sniffer.go -package=mocks github.com/momentics/hioload-rt/sniff Sniffer

// Sniffer identifies the runtime driving the task that owns ctx.
type Sniffer interface {
	CurrentRuntime(ctx context.Context) (api.RuntimeID, error)
}

// SnifferFunc adapts a function to Sniffer.
type SnifferFunc func(ctx context.Context) (api.RuntimeID, error)

func (f SnifferFunc) CurrentRuntime(ctx context.Context) (api.RuntimeID, error) { return f(ctx) }

type overrideKey struct{}
type markersKey struct{}

// WithRuntime pins the runtime reported for ctx and its children.
func WithRuntime(ctx context.Context, id api.RuntimeID) context.Context {
	return context.WithValue(ctx, overrideKey{}, id)
}

// Enter marks ctx as running under id. Entering a runtime already
// recorded on ctx returns ctx unchanged.
func Enter(ctx context.Context, id api.RuntimeID) context.Context {
	prev, _ := ctx.Value(markersKey{}).([]api.RuntimeID)
	if slices.Contains(prev, id) {
		return ctx
	}
	next := make([]api.RuntimeID, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, id)
	return context.WithValue(ctx, markersKey{}, next)
}

// Context is the default Sniffer. It consults the override first, then the
// runtime markers: none is ErrNoRuntime, more than one distinct runtime is
// ErrAmbiguousRuntime.
type Context struct{}

// Default is the process-wide context sniffer.
var Default Sniffer = Context{}

// CurrentRuntime implements Sniffer.
func (Context) CurrentRuntime(ctx context.Context) (api.RuntimeID, error) {
	if ctx == nil {
		return "", api.ErrNoRuntime
	}
	if id, ok := ctx.Value(overrideKey{}).(api.RuntimeID); ok && id != "" {
		return id, nil
	}
	markers, _ := ctx.Value(markersKey{}).([]api.RuntimeID)
	switch len(markers) {
	case 0:
		return "", api.ErrNoRuntime
	case 1:
		return markers[0], nil
	default:
		return "", api.NewError(api.ErrCodeAmbiguousRuntime, api.ErrAmbiguousRuntime.Message).
			WithContext("candidates", slices.Clone(markers))
	}
}

// Current runs the default sniffer against ctx.
func Current(ctx context.Context) (api.RuntimeID, error) {
	return Default.CurrentRuntime(ctx)
}
