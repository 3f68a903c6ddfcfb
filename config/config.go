// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// File configuration for dispatchers and the probe CLI. TOML and YAML are
// accepted, selected by file extension; keys absent from the file keep
// their defaults.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/logging"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root document.
type Config struct {
	// Runtime pins the dispatcher to one runtime; empty means sniff.
	Runtime  string   `toml:"runtime" yaml:"runtime"`
	Timeouts Timeouts `toml:"timeouts" yaml:"timeouts"`
	Loop     Loop     `toml:"loop" yaml:"loop"`
	Reactor  Reactor  `toml:"reactor" yaml:"reactor"`
	Log      Log      `toml:"log" yaml:"log"`
}

type Timeouts struct {
	Connect Duration `toml:"connect" yaml:"connect"`
	Read    Duration `toml:"read" yaml:"read"`
	Write   Duration `toml:"write" yaml:"write"`
	Pool    Duration `toml:"pool" yaml:"pool"`
}

type Loop struct {
	// Workers sizes the eventloop executor; zero means one per CPU.
	Workers int `toml:"workers" yaml:"workers"`
}

type Reactor struct {
	// CPUs pins reactor task threads round-robin; empty disables pinning.
	CPUs []int `toml:"cpus" yaml:"cpus"`
}

type Log struct {
	Level     string `toml:"level" yaml:"level"`
	Timestamp bool   `toml:"timestamp" yaml:"timestamp"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeouts: Timeouts{Connect: Duration(10 * time.Second)},
		Log:      Log{Level: "info", Timestamp: true},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config extension %q", ErrInvalid, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch api.RuntimeID(c.Runtime) {
	case "", api.RuntimeGoroutine, api.RuntimeEventLoop, api.RuntimeReactor:
	default:
		return fmt.Errorf("%w: unknown runtime %q", ErrInvalid, c.Runtime)
	}
	for name, d := range map[string]Duration{
		"connect": c.Timeouts.Connect,
		"read":    c.Timeouts.Read,
		"write":   c.Timeouts.Write,
		"pool":    c.Timeouts.Pool,
	} {
		if d < 0 {
			return fmt.Errorf("%w: timeouts.%s must not be negative", ErrInvalid, name)
		}
	}
	if c.Loop.Workers < 0 {
		return fmt.Errorf("%w: loop.workers must not be negative", ErrInvalid)
	}
	for _, cpu := range c.Reactor.CPUs {
		if cpu < 0 {
			return fmt.Errorf("%w: reactor.cpus entry %d is negative", ErrInvalid, cpu)
		}
	}
	if c.Log.Level != "" {
		if _, ok := logging.ParseLevel(c.Log.Level); !ok {
			return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
		}
	}
	return nil
}

// RuntimeID is the pinned runtime, or empty.
func (c Config) RuntimeID() api.RuntimeID { return api.RuntimeID(c.Runtime) }

// APITimeouts converts the timeouts section; zero entries are omitted.
func (c Config) APITimeouts() api.Timeouts {
	out := api.Timeouts{}
	set := func(p api.TimeoutPhase, d Duration) {
		if d > 0 {
			out[p] = time.Duration(d)
		}
	}
	set(api.PhaseConnect, c.Timeouts.Connect)
	set(api.PhaseRead, c.Timeouts.Read)
	set(api.PhaseWrite, c.Timeouts.Write)
	set(api.PhasePool, c.Timeouts.Pool)
	return out
}

// Logging maps the log section onto a logger config for profile.
func (c Config) Logging(profile logging.Profile) logging.Config {
	lc := logging.DefaultConfig(profile)
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		lc.Level = lvl
	}
	lc.Timestamp = c.Log.Timestamp
	return lc
}
