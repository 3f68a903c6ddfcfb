package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"trace":   zerolog.TraceLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseLevel("")
	assert.False(t, ok)
	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}

func TestParseBool(t *testing.T) {
	v, ok := parseBool("true")
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = parseBool("maybe")
	assert.False(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	cfg := DefaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.False(t, cfg.Timestamp)
}

func TestNew_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig(ProfileTest)
	cfg.Out = &buf
	logger := New(cfg)

	logger.Debug().Str("runtime", "reactor").Msg("resolved")
	assert.Contains(t, buf.String(), "resolved")
	assert.Contains(t, buf.String(), "runtime=reactor")

	buf.Reset()
	logger.Trace().Msg("hidden")
	assert.Empty(t, buf.String())
}
