package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry_Basic(t *testing.T) {
	reg := NewMetricsRegistry()
	reg.Set("foo.count", int64(42))
	reg.Set("bar.status", "ok")

	metrics := reg.GetSnapshot()
	assert.Equal(t, int64(42), metrics["foo.count"])
	assert.Equal(t, "ok", metrics["bar.status"])
	assert.False(t, reg.Updated().IsZero())
}

func TestMetricsRegistry_IncConcurrent(t *testing.T) {
	reg := NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Inc(MetricResolutions)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), reg.Counter(MetricResolutions))
	assert.Zero(t, reg.Counter("missing"))
}

func TestMetricsRegistry_IncReplacesNonCounter(t *testing.T) {
	reg := NewMetricsRegistry()
	reg.Set("k", "text")
	assert.Equal(t, int64(1), reg.Inc("k"))
}

func TestMetricsRegistry_SnapshotIsCopy(t *testing.T) {
	reg := NewMetricsRegistry()
	reg.Set("a", 1)
	snap := reg.GetSnapshot()
	snap["a"] = 2
	assert.Equal(t, 1, reg.GetSnapshot()["a"])
}

func TestDebugProbes_DumpState(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)
	dp.RegisterProbe("custom", func() any { return "v" })

	state := dp.DumpState()
	assert.Equal(t, "v", state["custom"])
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "platform.os")
}
