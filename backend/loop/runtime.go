// File: backend/loop/runtime.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime is the eventloop task runtime: tasks are queued on an executor
// worker pool and see a context marked with api.RuntimeEventLoop.

package loop

import (
	"context"
	"sync"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/concurrency"
	"github.com/momentics/hioload-rt/sniff"
)

// Runtime drives tasks on a pool of executor workers.
type Runtime struct {
	exec  api.Executor
	start time.Time
}

// NewRuntime starts a runtime with the given worker count. A non-positive
// count means one worker per CPU.
func NewRuntime(workers int) *Runtime {
	return &Runtime{exec: concurrency.NewExecutor(workers), start: time.Now()}
}

var (
	defaultOnce sync.Once
	defaultRT   *Runtime
)

// Default returns the process-wide runtime, started on first use.
func Default() *Runtime {
	defaultOnce.Do(func() { defaultRT = NewRuntime(0) })
	return defaultRT
}

// Go queues fn. It returns an error once the runtime is closed.
func (r *Runtime) Go(ctx context.Context, fn func(ctx context.Context)) error {
	tctx := sniff.Enter(ctx, api.RuntimeEventLoop)
	return r.exec.Submit(func() { fn(tctx) })
}

// Now is the runtime clock in seconds since the runtime started.
func (r *Runtime) Now() float64 {
	return time.Since(r.start).Seconds()
}

// Workers reports the current pool size.
func (r *Runtime) Workers() int { return r.exec.NumWorkers() }

// Resize changes the pool size.
func (r *Runtime) Resize(workers int) { r.exec.Resize(workers) }

// Close drains queued tasks and stops the workers.
func (r *Runtime) Close() { r.exec.Close() }
