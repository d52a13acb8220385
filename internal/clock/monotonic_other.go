//go:build !linux

package clock

import "time"

var processStart = time.Now()

// readMonotonic falls back to the Go runtime's monotonic reading, measured
// from process start rather than boot.
func readMonotonic() Micros {
	return FromDuration(time.Since(processStart))
}
