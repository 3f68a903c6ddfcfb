package sniff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/sniff"
)

func TestCurrentRuntime_NoMarker(t *testing.T) {
	_, err := sniff.Current(context.Background())
	assert.ErrorIs(t, err, api.ErrNoRuntime)
}

func TestCurrentRuntime_SingleMarker(t *testing.T) {
	ctx := sniff.Enter(context.Background(), api.RuntimeEventLoop)
	id, err := sniff.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.RuntimeEventLoop, id)
}

func TestEnter_Idempotent(t *testing.T) {
	ctx := sniff.Enter(context.Background(), api.RuntimeReactor)
	again := sniff.Enter(ctx, api.RuntimeReactor)
	assert.Equal(t, ctx, again)

	id, err := sniff.Current(again)
	require.NoError(t, err)
	assert.Equal(t, api.RuntimeReactor, id)
}

func TestCurrentRuntime_Ambiguous(t *testing.T) {
	ctx := sniff.Enter(context.Background(), api.RuntimeEventLoop)
	ctx = sniff.Enter(ctx, api.RuntimeReactor)

	_, err := sniff.Current(ctx)
	require.ErrorIs(t, err, api.ErrAmbiguousRuntime)

	var structured *api.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, []api.RuntimeID{api.RuntimeEventLoop, api.RuntimeReactor}, structured.Context["candidates"])
}

func TestWithRuntime_OverridesMarkers(t *testing.T) {
	ctx := sniff.Enter(context.Background(), api.RuntimeEventLoop)
	ctx = sniff.Enter(ctx, api.RuntimeReactor)
	ctx = sniff.WithRuntime(ctx, api.RuntimeGoroutine)

	id, err := sniff.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.RuntimeGoroutine, id)
}

func TestEnter_DoesNotLeakIntoSiblings(t *testing.T) {
	parent := sniff.Enter(context.Background(), api.RuntimeEventLoop)
	a := sniff.Enter(parent, api.RuntimeReactor)
	b := sniff.Enter(parent, api.RuntimeGoroutine)

	_, err := sniff.Current(a)
	assert.ErrorIs(t, err, api.ErrAmbiguousRuntime)

	id, err := sniff.Current(parent)
	require.NoError(t, err)
	assert.Equal(t, api.RuntimeEventLoop, id)
	assert.NotEqual(t, a, b)
}

func TestSnifferFunc(t *testing.T) {
	var s sniff.Sniffer = sniff.SnifferFunc(func(context.Context) (api.RuntimeID, error) {
		return "custom", nil
	})
	id, err := s.CurrentRuntime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.RuntimeID("custom"), id)
}
