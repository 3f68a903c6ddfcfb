package reactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/testutil/backendtest"
	"github.com/momentics/hioload-rt/sniff"
)

func TestBackendConformance(t *testing.T) {
	backendtest.Run(t, New)
}

func TestRuntime_GoMarksContext(t *testing.T) {
	rt := NewRuntime()
	got := make(chan api.RuntimeID, 1)
	rt.Go(context.Background(), func(ctx context.Context) {
		id, err := sniff.Current(ctx)
		assert.NoError(t, err)
		got <- id
	})
	select {
	case id := <-got:
		assert.Equal(t, api.RuntimeReactor, id)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestRuntime_NowIsMonotonic(t *testing.T) {
	rt := NewRuntime()
	a := rt.Now()
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, rt.Now(), a)
}

func TestBackend_SharedRuntimeClock(t *testing.T) {
	rt := NewRuntime()
	b1, b2 := NewWithRuntime(rt), NewWithRuntime(rt)
	t1, _ := b1.Time(context.Background())
	t2, _ := b2.Time(context.Background())
	assert.LessOrEqual(t, t1, t2)
}

func TestDialProxy_RejectsBadAddress(t *testing.T) {
	_, err := dialProxy(context.Background(), "tcp", "no-port")
	assert.Error(t, err)

	_, err = dialProxy(context.Background(), "tcp", "127.0.0.1:not-a-port")
	assert.Error(t, err)
}

func TestRuntime_PickRoundRobin(t *testing.T) {
	assert.Equal(t, -1, NewRuntime().pick())

	rt := NewRuntime(WithCPUs(2, 5))
	assert.Equal(t, []int{2, 5, 2, 5}, []int{rt.pick(), rt.pick(), rt.pick(), rt.pick()})
	assert.Equal(t, []int{2, 5}, rt.CPUs())
}

func TestRuntime_WithCPUsCopiesInput(t *testing.T) {
	cpus := []int{1}
	rt := NewRuntime(WithCPUs(cpus...))
	cpus[0] = 7
	assert.Equal(t, []int{1}, rt.CPUs())
}

func TestRuntime_PinnedTaskRuns(t *testing.T) {
	cpus, err := affinity.Allowed()
	if err != nil || len(cpus) == 0 {
		t.Skip("cpu affinity unavailable")
	}
	rt := NewRuntime(WithCPUs(cpus[0]))
	done := make(chan []int, 1)
	rt.Go(context.Background(), func(context.Context) {
		now, _ := affinity.Allowed()
		done <- now
	})
	select {
	case now := <-done:
		assert.Equal(t, []int{cpus[0]}, now)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestRuntime_PinningFailureStillRunsTask(t *testing.T) {
	rt := NewRuntime(WithCPUs(1 << 20))
	done := make(chan struct{})
	rt.Go(context.Background(), func(context.Context) { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}
