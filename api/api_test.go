package api_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	cause := context.DeadlineExceeded
	err := api.Wrap(api.ErrConnectTimeout, cause)

	assert.ErrorIs(t, err, api.ErrConnectTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, api.ErrConnect)
	assert.Equal(t, "connect timeout: context deadline exceeded", err.Error())

	wrapped := fmt.Errorf("dial: %w", err)
	assert.ErrorIs(t, wrapped, api.ErrConnectTimeout)
}

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	_ = api.Wrap(api.ErrRead, errors.New("boom"))
	assert.Nil(t, api.ErrRead.Err)
	assert.Empty(t, api.ErrRead.Context)
}

func TestErrorWithContext(t *testing.T) {
	err := api.NewError(api.ErrCodeUnsupportedRuntime, "unsupported concurrency runtime").
		WithContext("runtime", "gevent")
	assert.ErrorIs(t, err, api.ErrUnsupportedRuntime)
	assert.Contains(t, err.Error(), "gevent")
}

func TestTimeouts(t *testing.T) {
	to := api.Timeouts{api.PhaseConnect: 5 * time.Second, api.PhaseRead: 0}

	d, ok := to.Get(api.PhaseConnect)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, d)

	_, ok = to.Get(api.PhaseRead)
	assert.False(t, ok, "zero duration is unbounded")
	_, ok = to.Get(api.PhaseWrite)
	assert.False(t, ok)

	now := time.Now()
	assert.Equal(t, now.Add(5*time.Second), to.Deadline(api.PhaseConnect, now))
	assert.True(t, to.Deadline(api.PhaseWrite, now).IsZero())

	var nilTimeouts api.Timeouts
	_, ok = nilTimeouts.Get(api.PhaseConnect)
	assert.False(t, ok)
}

func TestParseProxyType(t *testing.T) {
	pt, err := api.ParseProxyType("socks5")
	require.NoError(t, err)
	assert.Equal(t, api.ProxySOCKS5, pt)

	_, err = api.ParseProxyType("HTTP")
	assert.ErrorIs(t, err, api.ErrUnsupportedProxy)
}

func TestRuntimeIDString(t *testing.T) {
	assert.Equal(t, "eventloop", api.RuntimeEventLoop.String())
	assert.Equal(t, "unknown", api.RuntimeID("").String())
}

type countingLock struct {
	acquired, released int
	fail               error
}

func (l *countingLock) Acquire(context.Context) error {
	if l.fail != nil {
		return l.fail
	}
	l.acquired++
	return nil
}

func (l *countingLock) Release() error { l.released++; return nil }

func TestWithLock(t *testing.T) {
	l := &countingLock{}
	err := api.WithLock(context.Background(), l, func() error { return errors.New("inner") })
	assert.EqualError(t, err, "inner")
	assert.Equal(t, 1, l.acquired)
	assert.Equal(t, 1, l.released)

	l = &countingLock{fail: api.ErrOperationTimeout}
	called := false
	err = api.WithLock(context.Background(), l, func() error { called = true; return nil })
	assert.ErrorIs(t, err, api.ErrOperationTimeout)
	assert.False(t, called)
	assert.Zero(t, l.released)
}
