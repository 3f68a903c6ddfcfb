// Command rtprobe opens streams and primitives through the runtime
// dispatcher from inside a chosen runtime and reports what was resolved.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "rtprobe:", err)
		os.Exit(1)
	}
}
