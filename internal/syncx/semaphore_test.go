package syncx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
)

var errPoolTimeout = errors.New("pool timeout")

func TestNewSemaphore_RejectsNonPositive(t *testing.T) {
	for _, v := range []int{0, -3} {
		_, err := NewSemaphore(v, nil)
		assert.ErrorIs(t, err, api.ErrInvalidArgument)
	}
}

func TestSemaphore_BoundedWaitReturnsConfiguredError(t *testing.T) {
	sem, err := NewSemaphore(1, errPoolTimeout)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sem.Acquire(ctx, 0))
	err = sem.Acquire(ctx, 20*time.Millisecond)
	assert.Same(t, errPoolTimeout, err)

	require.NoError(t, sem.Release())
	require.NoError(t, sem.Acquire(ctx, 20*time.Millisecond), "abandoned waiter must not keep the slot")
	assert.Equal(t, 1, sem.Held())
}

func TestSemaphore_DefaultExceededError(t *testing.T) {
	sem, err := NewSemaphore(1, nil)
	require.NoError(t, err)
	require.NoError(t, sem.Acquire(context.Background(), 0))
	assert.ErrorIs(t, sem.Acquire(context.Background(), time.Millisecond), api.ErrOperationTimeout)
}

func TestSemaphore_ContextCancel(t *testing.T) {
	sem, err := NewSemaphore(1, nil)
	require.NoError(t, err)
	require.NoError(t, sem.Acquire(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	assert.ErrorIs(t, sem.Acquire(ctx, 0), context.Canceled)

	require.NoError(t, sem.Release())
	assert.Equal(t, 0, sem.Held())
}

func TestSemaphore_FIFOHandoff(t *testing.T) {
	sem, err := NewSemaphore(1, nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, sem.Acquire(ctx, 0))

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, sem.Acquire(ctx, 0))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			assert.NoError(t, sem.Release())
		}(i)
		// Let each goroutine enqueue before the next one starts.
		require.Eventually(t, func() bool {
			sem.mu.Lock()
			defer sem.mu.Unlock()
			return sem.waiters.Length() == i+1
		}, time.Second, time.Millisecond)
	}
	require.NoError(t, sem.Release())
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSemaphore_ReleaseUnheld(t *testing.T) {
	sem, err := NewSemaphore(2, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, sem.Release(), api.ErrInvalidArgument)
}

func TestSemaphore_LimitsConcurrency(t *testing.T) {
	const limit = 3
	sem, err := NewSemaphore(limit, nil)
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		current int
		peak    int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sem.Acquire(context.Background(), 0))
			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			current--
			mu.Unlock()
			assert.NoError(t, sem.Release())
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak, limit)
	assert.Equal(t, 0, sem.Held())
}

func TestLock_MutualExclusion(t *testing.T) {
	l := NewLock()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = api.WithLock(context.Background(), l, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
