//go:build linux
// +build linux

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// monotonic reads CLOCK_MONOTONIC.
func monotonic() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic("reactor: clock_gettime: " + err.Error())
	}
	return time.Duration(ts.Nano())
}
