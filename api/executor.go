// Package api
// Author: momentics
//
// Executor contract for the task pool behind the eventloop runtime.

package api

// Executor runs submitted tasks on a pool of workers.
type Executor interface {
	// Submit schedules task for execution.
	Submit(task func()) error

	// NumWorkers returns current number of active worker routines.
	NumWorkers() int

	// Resize adjusts the concurrency at runtime.
	Resize(newCount int)

	// Close stops the workers after draining queued tasks.
	Close()
}
