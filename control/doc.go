// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection shared by the dispatcher and the
// probe CLI.
//
// Provides concurrent-safe primitives:
//   - MetricsRegistry: named counters and gauges with snapshot reads
//   - DebugProbes: named state reporters dumped on demand
package control
