// File: internal/sched/conn.go
// Package sched
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection scheduling state. The Conn carries only the fields the core
// needs; list membership bookkeeping lives in the owning Context, so a Conn
// holds no back-references into either list.

package sched

import (
	"github.com/momentics/hioload-sched/api"
)

// Conn is the scheduling core's record of one managed session. All mutable
// fields are guarded by the owning Context's lock.
type Conn struct {
	id   uint64
	tsi  int
	cb   api.CallbackFunc
	user any

	// coarse timeout state; reason != TimeoutNone iff registry member
	timeoutReason    api.TimeoutReason
	timeoutLimitSecs int
	timeoutSetAt     int64 // wall secs at arming, for diagnostics/limit checks

	// absolute monotonic usec; != 0 iff enqueued in the deadline queue
	deadlineAt int64
}

var _ api.Conn = (*Conn)(nil)

// NewConn creates a connection record owned by service thread tsi. The
// callback receives timer and timeout expiry notifications; user is the
// opaque state exposed through UserData.
func NewConn(id uint64, tsi int, cb api.CallbackFunc, user any) *Conn {
	return &Conn{id: id, tsi: tsi, cb: cb, user: user}
}

// ID returns the service-unique connection identifier.
func (c *Conn) ID() uint64 { return c.id }

// ThreadIndex returns the owning service thread index.
func (c *Conn) ThreadIndex() int { return c.tsi }

// UserData returns the opaque per-connection state.
func (c *Conn) UserData() any { return c.user }

// TimeoutReason reports why a coarse timeout is armed, or TimeoutNone.
// Caller must hold the owning Context's lock.
func (c *Conn) TimeoutReason() api.TimeoutReason { return c.timeoutReason }

// TimeoutLimitSecs reports the armed coarse limit in seconds.
// Caller must hold the owning Context's lock.
func (c *Conn) TimeoutLimitSecs() int { return c.timeoutLimitSecs }

// TimeoutSetAt reports the wall-clock second the coarse timeout was armed.
// Caller must hold the owning Context's lock.
func (c *Conn) TimeoutSetAt() int64 { return c.timeoutSetAt }

// DeadlineAt reports the absolute monotonic microsecond fire time, or zero
// when no deadline is scheduled. Caller must hold the owning Context's lock.
func (c *Conn) DeadlineAt() int64 { return c.deadlineAt }
