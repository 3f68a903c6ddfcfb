package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/backend/loop"
	"github.com/momentics/hioload-rt/backend/native"
	"github.com/momentics/hioload-rt/backend/reactor"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/dispatch"
	"github.com/momentics/hioload-rt/internal/logging"
)

// task runs inside the selected runtime against a sniffing dispatcher.
type task func(ctx context.Context, d *dispatch.Dispatcher, out io.Writer) error

// runProbe launches fn as a task of s.runtime and waits for it.
func runProbe(ctx context.Context, s settings, out io.Writer, fn task) error {
	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)

	registry := dispatch.DefaultRegistry()
	var evloop *loop.Runtime
	if s.runtime == api.RuntimeEventLoop {
		evloop = loop.NewRuntime(s.cfg.Loop.Workers)
		registry[api.RuntimeEventLoop] = func() api.Backend { return loop.NewWithRuntime(evloop) }
	}
	rrt := reactor.NewRuntime(reactor.WithCPUs(s.cfg.Reactor.CPUs...))
	registry[api.RuntimeReactor] = func() api.Backend { return reactor.NewWithRuntime(rrt) }
	d := dispatch.New(
		dispatch.WithRegistry(registry),
		dispatch.WithMetrics(metrics),
		dispatch.WithProbes(probes),
		dispatch.WithLogger(logging.Component("rtprobe")),
	)

	done := make(chan error, 1)
	body := func(tctx context.Context) { done <- report(tctx, d, out, fn) }
	switch s.runtime {
	case api.RuntimeGoroutine:
		native.Go(ctx, body)
	case api.RuntimeEventLoop:
		if err := evloop.Go(ctx, body); err != nil {
			return err
		}
	case api.RuntimeReactor:
		rrt.Go(ctx, body)
	default:
		return fmt.Errorf("unknown runtime %q", s.runtime)
	}

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if cerr := d.Close(); err == nil {
		err = cerr
	}
	if evloop != nil {
		if _, bound := d.Runtime(); !bound {
			evloop.Close()
		}
	}
	if s.debug {
		dumpState(out, "metric", metrics.GetSnapshot())
		dumpState(out, "probe", probes.DumpState())
	}
	return err
}

func report(ctx context.Context, d *dispatch.Dispatcher, out io.Writer, fn task) error {
	if err := fn(ctx, d, out); err != nil {
		return err
	}
	id, _ := d.Runtime()
	fmt.Fprintf(out, "runtime: %s\n", id)
	now, err := d.Time(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "clock: %s\n", formatSeconds(now))
	return nil
}

// exchange reports the stream and, with --send, performs one round trip.
func exchange(ctx context.Context, s settings, stream api.SocketStream, out io.Writer) error {
	defer stream.Close()
	fmt.Fprintf(out, "http: %s\n", stream.HTTPVersion())
	if s.send == "" {
		return nil
	}
	if err := stream.Write(ctx, []byte(s.send), s.timeouts()); err != nil {
		return err
	}
	reply, err := stream.Read(ctx, 64*1024, s.timeouts())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "received: %s\n", reply)
	return nil
}

func dumpState(out io.Writer, kind string, state map[string]any) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s %s=%v\n", kind, k, state[k])
	}
}
