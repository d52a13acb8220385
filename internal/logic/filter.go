package logic

import (
	"sync/atomic"
	"time"

	"github.com/sweeney/pattern-gallery/internal/clock"
)

// lineWindow holds the last accepted edge time for one line plus its counters.
type lineWindow struct {
	last     atomic.Uint64
	seen     atomic.Uint64
	accepted atomic.Uint64
	rejected atomic.Uint64
}

// EdgeFilter rejects edges that arrive within the refractory window of the
// previously accepted edge on the same line. Accept is lock-free and safe to
// call concurrently from several event goroutines and the foreground loop.
type EdgeFilter struct {
	threshold uint64
	lines     [numLines]lineWindow
}

// NewEdgeFilter creates a filter with the given refractory window.
// Windows start at zero, so the first edge on a line is accepted unless it is
// stamped within the first threshold after boot, in which case it is rejected
// like any other bounce.
func NewEdgeFilter(threshold time.Duration) *EdgeFilter {
	return &EdgeFilter{threshold: uint64(clock.FromDuration(threshold))}
}

// Threshold returns the refractory window.
func (f *EdgeFilter) Threshold() time.Duration {
	return clock.Micros(f.threshold).Duration()
}

// Arm seeds every line's window with now, so edges within the first
// threshold after startup are treated as bounce.
func (f *EdgeFilter) Arm(now clock.Micros) {
	for i := range f.lines {
		f.lines[i].last.Store(uint64(now))
	}
}

// Accept reports whether e is a real press. An edge is accepted iff its time
// is more than the threshold past the line's last accepted edge; on
// acceptance the window moves to e.Time. Edges stamped before the last
// accepted edge are stale and rejected. Unknown lines are ignored.
func (f *EdgeFilter) Accept(e Edge) bool {
	if e.Line >= numLines {
		return false
	}
	w := &f.lines[e.Line]
	w.seen.Add(1)

	t := uint64(e.Time)
	for {
		last := w.last.Load()
		if t < last || t-last <= f.threshold {
			w.rejected.Add(1)
			return false
		}
		if w.last.CompareAndSwap(last, t) {
			w.accepted.Add(1)
			return true
		}
	}
}

// Window returns the last accepted edge time for line.
func (f *EdgeFilter) Window(line Line) clock.Micros {
	if line >= numLines {
		return 0
	}
	return clock.Micros(f.lines[line].last.Load())
}

// Stats returns the diagnostic counters for line.
func (f *EdgeFilter) Stats(line Line) LineStats {
	if line >= numLines {
		return LineStats{}
	}
	w := &f.lines[line]
	return LineStats{
		Seen:     w.seen.Load(),
		Accepted: w.accepted.Load(),
		Rejected: w.rejected.Load(),
	}
}
