package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAffinity_NegativeCPU(t *testing.T) {
	assert.Error(t, SetAffinity(-1))
}

func TestSetAffinity_AllowedCPU(t *testing.T) {
	if runtime.GOOS != "linux" {
		assert.ErrorIs(t, SetAffinity(0), ErrUnsupported)
		return
	}
	cpus, err := Allowed()
	require.NoError(t, err)
	require.NotEmpty(t, cpus)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The pinned thread exits with the goroutine instead of rejoining the pool.
		runtime.LockOSThread()
		assert.NoError(t, SetAffinity(cpus[0]))
		now, err := Allowed()
		assert.NoError(t, err)
		assert.Equal(t, []int{cpus[0]}, now)
	}()
	<-done
}
