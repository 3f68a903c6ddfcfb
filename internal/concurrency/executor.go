// File: internal/concurrency/executor.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor dispatches tasks across worker goroutines from one FIFO queue.
// wg.Done is called only after a worker has been completely stopped and
// removed, so resizing never races with a running task's bookkeeping.

package concurrency

import (
	"runtime"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-rt/api"
)

var _ api.Executor = (*Executor)(nil)

type TaskFunc func()

// Executor manages a pool of worker goroutines.
type Executor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   *queue.Queue // of TaskFunc
	workers []*worker
	closed  bool
	wg      sync.WaitGroup
}

// NewExecutor creates a new Executor with the given number of workers.
// A non-positive count means one worker per CPU.
func NewExecutor(numWorkers int) *Executor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	e := &Executor{tasks: queue.New()}
	e.cond = sync.NewCond(&e.mu)
	e.mu.Lock()
	e.spawnLocked(numWorkers)
	e.mu.Unlock()
	return e
}

func (e *Executor) spawnLocked(n int) {
	for i := 0; i < n; i++ {
		w := &worker{id: len(e.workers), executor: e, stoppedCh: make(chan struct{})}
		e.workers = append(e.workers, w)
		e.wg.Add(1)
		go w.run()
	}
}

// Submit enqueues a task. Returns ErrExecutorClosed after Close.
func (e *Executor) Submit(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	e.tasks.Add(TaskFunc(task))
	e.cond.Signal()
	return nil
}

// Resize dynamically scales the worker pool. Shrinking waits for the
// removed workers to finish their current task.
func (e *Executor) Resize(newCount int) {
	if newCount <= 0 {
		newCount = 1
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	current := len(e.workers)
	if newCount > current {
		e.spawnLocked(newCount - current)
		e.mu.Unlock()
		return
	}
	removed := append([]*worker(nil), e.workers[newCount:]...)
	for _, w := range removed {
		w.stop = true
	}
	e.workers = e.workers[:newCount]
	e.cond.Broadcast()
	e.mu.Unlock()

	for _, w := range removed {
		<-w.stoppedCh
	}
}

// Close rejects new tasks, lets workers drain the queue, and waits for them.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	e.wg.Wait()
}

// NumWorkers returns active worker count.
func (e *Executor) NumWorkers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workers)
}

// Pending returns the number of queued tasks not yet picked up.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks.Length()
}

// worker runs tasks. stop is guarded by executor.mu.
type worker struct {
	id        int
	executor  *Executor
	stop      bool
	stoppedCh chan struct{}
}

func (w *worker) run() {
	e := w.executor
	defer func() {
		e.wg.Done()
		close(w.stoppedCh)
	}()
	for {
		e.mu.Lock()
		for e.tasks.Length() == 0 && !w.stop && !e.closed {
			e.cond.Wait()
		}
		if w.stop || (e.closed && e.tasks.Length() == 0) {
			e.mu.Unlock()
			return
		}
		task := e.tasks.Remove().(TaskFunc)
		e.mu.Unlock()
		w.safeExecute(task)
	}
}

func (w *worker) safeExecute(task TaskFunc) {
	defer func() { _ = recover() }()
	task()
}
