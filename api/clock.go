// File: api/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Clock source contract consumed by the scheduling core.

package api

// Clock supplies the two time bases the core depends on: a monotonic
// microsecond counter for fine-grained deadlines and wall-clock seconds for
// coarse timeouts. Implementations live in internal/clock.
type Clock interface {
	// NowUsec returns monotonic time in microseconds. The epoch is
	// arbitrary; only differences are meaningful.
	NowUsec() int64

	// NowSecs returns wall-clock time as Unix seconds.
	NowSecs() int64
}
