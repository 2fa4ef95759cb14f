// File: internal/sched/registry.go
// Package sched
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Coarse timeout registry: unordered, seconds-resolution, wall-clock based.
// Arming records the reason and limit on the connection; expiry evaluation
// happens in SweepTimeouts, driven about once per second by the host.

package sched

import (
	"github.com/momentics/hioload-sched/api"
)

// ArmTimeout (re)arms the coarse timeout for c. secs may also be KillSync
// (terminate immediately, bypassing both lists) or KillAsync (expire on the
// next coarse sweep). Arming with TimeoutNone disarms.
func (x *Context) ArmTimeout(c *Conn, reason api.TimeoutReason, secs int) {
	if secs == api.KillSync {
		x.mu.Lock()
		defer x.mu.Unlock()
		x.disarmTimeoutLocked(c)
		x.cancelDeadlineLocked(c)
		x.log.Debug().Uint64("conn", c.ID()).Log("synchronous kill")
		if x.closer != nil {
			x.closer(c, api.CloseNoStatus, "to sync kill")
		}
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ArmTimeoutLocked(c, reason, secs)
}

// ArmTimeoutLocked is ArmTimeout for callers already holding the context
// lock. It does not accept KillSync.
func (x *Context) ArmTimeoutLocked(c *Conn, reason api.TimeoutReason, secs int) {
	if secs == api.KillAsync {
		secs = 0
	}

	x.log.Debug().
		Uint64("conn", c.ID()).
		Stringer("reason", reason).
		Int("secs", secs).
		Log("arm timeout")

	c.timeoutLimitSecs = secs
	c.timeoutSetAt = x.clock.NowSecs()
	c.timeoutReason = reason

	delete(x.registry, c.ID())
	if reason == api.TimeoutNone {
		return
	}
	x.registry[c.ID()] = c
}

// DisarmTimeout removes c from the registry; safe on a non-member.
func (x *Context) DisarmTimeout(c *Conn) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.disarmTimeoutLocked(c)
}

// DisarmTimeoutLocked is DisarmTimeout for callers already holding the
// context lock.
func (x *Context) DisarmTimeoutLocked(c *Conn) {
	x.disarmTimeoutLocked(c)
}

func (x *Context) disarmTimeoutLocked(c *Conn) {
	c.timeoutReason = api.TimeoutNone
	delete(x.registry, c.ID())
}

// SweepTimeouts expires every registry member whose limit has elapsed at
// nowSecs. A limit of 0 is already due. Each due connection is removed from
// the registry before its callback runs with CallbackTimeout; if the callback
// re-arms the timeout it has taken over the decision and the connection is
// kept, otherwise it is closed through the destruction delegate.
func (x *Context) SweepTimeouts(nowSecs int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.SweepTimeoutsLocked(nowSecs)
}

// SweepTimeoutsLocked is SweepTimeouts for callers already holding the
// context lock.
func (x *Context) SweepTimeoutsLocked(nowSecs int64) {
	var due []*Conn
	for _, c := range x.registry {
		if nowSecs-c.timeoutSetAt >= int64(c.timeoutLimitSecs) {
			due = append(due, c)
		}
	}

	for _, c := range due {
		reason := c.timeoutReason
		x.disarmTimeoutLocked(c)
		x.timeoutsExpired.Add(1)

		err := error(nil)
		if c.cb != nil {
			err = c.cb(c, api.CallbackTimeout)
		}
		if c.timeoutReason != api.TimeoutNone {
			// callback re-armed; it owns the outcome now
			continue
		}

		x.log.Debug().
			Uint64("conn", c.ID()).
			Stringer("reason", reason).
			Err(err).
			Log("timeout expired, closing")
		if x.closer != nil {
			x.closer(c, api.CloseNoStatus, "timeout: "+reason.String())
		}
	}
}
