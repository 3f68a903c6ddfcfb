package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/internal/testutil/echo"
	"github.com/momentics/hioload-rt/internal/testutil/socksproxy"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClock_EveryRuntime(t *testing.T) {
	for _, rt := range []string{"goroutine", "eventloop", "reactor"} {
		t.Run(rt, func(t *testing.T) {
			out, err := run(t, "clock", "--runtime", rt)
			require.NoError(t, err)
			assert.Contains(t, out, "runtime: "+rt)
			assert.Contains(t, out, "clock: ")
		})
	}
}

func TestClock_RuntimeFromEnv(t *testing.T) {
	t.Setenv("RTPROBE_RUNTIME", "reactor")
	out, err := run(t, "clock")
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: reactor")
}

func TestClock_RuntimeFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtprobe.toml")
	require.NoError(t, os.WriteFile(path, []byte("runtime = \"eventloop\"\n[loop]\nworkers = 2\n"), 0o600))
	out, err := run(t, "clock", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: eventloop")
}

func TestClock_Debug(t *testing.T) {
	out, err := run(t, "clock", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "metric dispatch.resolutions=1")
	assert.Contains(t, out, "metric dispatch.op.create_lock=1")
	assert.Contains(t, out, "probe platform.cpus=")
}

func TestClock_InvalidRuntime(t *testing.T) {
	_, err := run(t, "clock", "--runtime", "threads")
	assert.Error(t, err)
}

func TestClock_ReactorPinned(t *testing.T) {
	cpus, err := affinity.Allowed()
	if err != nil || len(cpus) == 0 {
		t.Skip("cpu affinity unavailable")
	}
	out, err := run(t, "clock", "--runtime", "reactor", "--cpus", strconv.Itoa(cpus[0]))
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: reactor")
}

func TestClock_NegativeCPU(t *testing.T) {
	_, err := run(t, "clock", "--runtime", "reactor", "--cpus=-1")
	assert.Error(t, err)
}

func TestTCP_Echo(t *testing.T) {
	srv := echo.TCP(t)
	out, err := run(t, "tcp", srv.Host(), strconv.Itoa(srv.Port()), "--send", "hello", "--runtime", "eventloop")
	require.NoError(t, err)
	assert.Contains(t, out, "http: HTTP/1.1")
	assert.Contains(t, out, "received: hello")
	assert.Contains(t, out, "runtime: eventloop")
}

func TestTCP_BadPort(t *testing.T) {
	_, err := run(t, "tcp", "127.0.0.1", "http")
	assert.Error(t, err)
}

func TestUDS_Echo(t *testing.T) {
	srv := echo.Unix(t)
	out, err := run(t, "uds", srv.Path(), "--send", "over-uds", "--runtime", "reactor")
	require.NoError(t, err)
	assert.Contains(t, out, "received: over-uds")
}

func TestSocks_Echo(t *testing.T) {
	proxy := socksproxy.Start(t, socksproxy.WithUpstream(socksproxy.EchoUpstream()))
	out, err := run(t, "socks", "example.test", "443",
		"--proxy", proxy.Host()+":"+strconv.Itoa(proxy.Port()), "--send", "tunnelled")
	require.NoError(t, err)
	assert.Contains(t, out, "received: tunnelled")
	assert.Equal(t, []string{"example.test:443"}, proxy.Targets())
}
