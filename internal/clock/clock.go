// File: internal/clock/clock.go
// Package clock
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Clock sources backing api.Clock. Platform-specific monotonic readings live
// in separate files (clock_linux.go, clock_stub.go) guarded by build tags.

package clock

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-sched/api"
)

// Monotonic is the production clock: monotonic microseconds for deadlines,
// Unix seconds for coarse timeouts.
type Monotonic struct{}

var _ api.Clock = Monotonic{}

// New returns the default production clock.
func New() Monotonic { return Monotonic{} }

// NowUsec returns monotonic time in microseconds.
func (Monotonic) NowUsec() int64 { return nowUsecPlatform() }

// NowSecs returns wall-clock Unix seconds.
func (Monotonic) NowSecs() int64 { return time.Now().Unix() }

// Manual is a settable clock for deterministic tests. The zero value starts
// at usec 0 / sec 0.
type Manual struct {
	usec atomic.Int64
	secs atomic.Int64
}

var _ api.Clock = (*Manual)(nil)

// NewManual returns a Manual clock positioned at the given instants.
func NewManual(usec, secs int64) *Manual {
	m := &Manual{}
	m.usec.Store(usec)
	m.secs.Store(secs)
	return m
}

func (m *Manual) NowUsec() int64 { return m.usec.Load() }
func (m *Manual) NowSecs() int64 { return m.secs.Load() }

// SetUsec positions the monotonic reading.
func (m *Manual) SetUsec(v int64) { m.usec.Store(v) }

// AdvanceUsec moves the monotonic reading forward by d microseconds.
func (m *Manual) AdvanceUsec(d int64) { m.usec.Add(d) }

// SetSecs positions the wall-clock reading.
func (m *Manual) SetSecs(v int64) { m.secs.Store(v) }

// AdvanceSecs moves the wall-clock reading forward by d seconds.
func (m *Manual) AdvanceSecs(d int64) { m.secs.Add(d) }
