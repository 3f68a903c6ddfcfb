package native

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/testutil/backendtest"
	"github.com/momentics/hioload-rt/sniff"
)

func TestBackendConformance(t *testing.T) {
	backendtest.Run(t, New)
}

func TestGo_MarksContext(t *testing.T) {
	got := make(chan api.RuntimeID, 1)
	Go(context.Background(), func(ctx context.Context) {
		id, err := sniff.Current(ctx)
		assert.NoError(t, err)
		got <- id
	})
	select {
	case id := <-got:
		assert.Equal(t, api.RuntimeGoroutine, id)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestSemaphore_CancelledWhileWaiting(t *testing.T) {
	s, err := newSemaphore(1, nil)
	require.NoError(t, err)
	require.NoError(t, s.Acquire(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	assert.ErrorIs(t, s.Acquire(ctx, time.Second), context.Canceled)

	require.NoError(t, s.Release())
	assert.Error(t, s.Release())
}

func TestSemaphore_DefaultExceededError(t *testing.T) {
	s, err := newSemaphore(1, nil)
	require.NoError(t, err)
	require.NoError(t, s.Acquire(context.Background(), 0))
	assert.ErrorIs(t, s.Acquire(context.Background(), 10*time.Millisecond), api.ErrOperationTimeout)
}
