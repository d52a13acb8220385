//go:build linux

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

func readMonotonic() Micros {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// Not expected on any supported kernel; Monotonic.clamp keeps the
		// counter from going backwards.
		return 0
	}
	return FromDuration(time.Duration(ts.Nano()))
}
