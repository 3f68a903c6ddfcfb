package main

import (
	"crypto/tls"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/config"
	"github.com/momentics/hioload-rt/internal/logging"
)

const envPrefix = "RTPROBE"

// settings is the merged view of config file, flags and environment.
type settings struct {
	cfg        config.Config
	runtime    api.RuntimeID
	tls        bool
	serverName string
	insecure   bool
	send       string
	debug      bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "rtprobe",
		Short:         "Probe the runtime dispatcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "TOML or YAML configuration file")
	pf.String("runtime", "", "runtime to probe from: goroutine, eventloop or reactor")
	pf.Duration("connect-timeout", 0, "connect timeout (overrides config)")
	pf.Duration("read-timeout", 0, "read timeout (overrides config)")
	pf.Int("workers", 0, "eventloop worker count (overrides config)")
	pf.IntSlice("cpus", nil, "reactor CPUs to pin task threads to (overrides config)")
	pf.String("log-level", "", "log level (overrides config)")
	pf.Bool("tls", false, "upgrade the stream to TLS")
	pf.String("server-name", "", "TLS server name (defaults to the target host)")
	pf.Bool("insecure", false, "skip TLS certificate verification")
	pf.String("send", "", "payload to write after connecting; the reply is printed")
	pf.Bool("debug", false, "print dispatcher metrics and probes")
	_ = v.BindPFlags(pf)

	root.AddCommand(newTCPCmd(v), newUDSCmd(v), newSocksCmd(v), newClockCmd(v))
	return root
}

func loadSettings(v *viper.Viper, cmd *cobra.Command) (settings, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return settings{}, err
		}
		cfg = loaded
	}
	if r := v.GetString("runtime"); r != "" {
		cfg.Runtime = r
	}
	if d := v.GetDuration("connect-timeout"); d > 0 {
		cfg.Timeouts.Connect = config.Duration(d)
	}
	if d := v.GetDuration("read-timeout"); d > 0 {
		cfg.Timeouts.Read = config.Duration(d)
	}
	if w := v.GetInt("workers"); w > 0 {
		cfg.Loop.Workers = w
	}
	if cpus := v.GetIntSlice("cpus"); len(cpus) > 0 {
		cfg.Reactor.CPUs = cpus
	}
	if lvl := v.GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	lc := cfg.Logging(logging.ProfileRuntime)
	lc.Out = cmd.ErrOrStderr()
	logging.ConfigureWith(lc)

	rt := cfg.RuntimeID()
	if rt == "" {
		rt = api.RuntimeGoroutine
	}
	return settings{
		cfg:        cfg,
		runtime:    rt,
		tls:        v.GetBool("tls"),
		serverName: v.GetString("server-name"),
		insecure:   v.GetBool("insecure"),
		send:       v.GetString("send"),
		debug:      v.GetBool("debug"),
	}, nil
}

func (s settings) tlsConfig(host string) *tls.Config {
	if !s.tls {
		return nil
	}
	name := s.serverName
	if name == "" {
		name = host
	}
	return &tls.Config{
		ServerName:         name,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.insecure, //nolint:gosec // opt-in for probing test endpoints
	}
}

func (s settings) timeouts() api.Timeouts {
	return s.cfg.APITimeouts()
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", raw)
	}
	return port, nil
}

func formatSeconds(v float64) string {
	return (time.Duration(v * float64(time.Second))).String()
}
