//go:build !linux
// +build !linux

// File: internal/clock/clock_stub.go
// Author: momentics <momentics@gmail.com>
//
// Portable monotonic clock for platforms without a dedicated implementation,
// derived from the runtime's monotonic reading embedded in time.Time.

package clock

import "time"

var processStart = time.Now()

// nowUsecPlatform returns microseconds since process start.
func nowUsecPlatform() int64 {
	return int64(time.Since(processStart) / time.Microsecond)
}
