// File: internal/sched/deadline.go
// Package sched
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fine-grained deadline queue and its per-tick sweep. The queue keeps
// connections ordered by absolute monotonic microsecond fire time; the sweep
// unlinks every due entry before its callback runs, so a callback is free to
// destroy its own connection.

package sched

import (
	"fmt"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-sched/api"
)

// ScheduleDeadline (re)schedules c's deadline delayUsec microseconds from
// now, or cancels it when delayUsec is api.CancelDeadline. Re-scheduling an
// already queued connection moves it; cancelling a non-member is a no-op.
func (x *Context) ScheduleDeadline(c *Conn, delayUsec int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ScheduleDeadlineLocked(c, delayUsec)
}

// ScheduleDeadlineLocked is ScheduleDeadline for callers already holding the
// context lock, including expiry callbacks that re-arm.
func (x *Context) ScheduleDeadlineLocked(c *Conn, delayUsec int64) {
	x.cancelDeadlineLocked(c)

	if delayUsec == api.CancelDeadline {
		return
	}

	c.deadlineAt = x.clock.NowUsec() + delayUsec
	if c.deadlineAt == 0 {
		// zero marks not-queued
		c.deadlineAt = 1
	}

	// sorted insert, earliest deadline first; equal deadlines keep the
	// earlier-scheduled entry in front
	for e := x.dq.Front(); e != nil; e = e.Next() {
		w := e.Value.(*Conn)
		if w.deadlineAt == 0 {
			// queue membership without a deadline means the index and the
			// list disagree; corruption here is unrecoverable
			panic("sched: queued conn without deadline")
		}
		if w.deadlineAt > c.deadlineAt {
			x.dqIndex[c.ID()] = x.dq.InsertBefore(c, e)
			return
		}
	}
	x.dqIndex[c.ID()] = x.dq.PushBack(c)
}

// cancelDeadlineLocked unlinks c from the deadline queue if present.
func (x *Context) cancelDeadlineLocked(c *Conn) {
	if e, ok := x.dqIndex[c.ID()]; ok {
		x.dq.Remove(e)
		delete(x.dqIndex, c.ID())
	}
	c.deadlineAt = 0
}

// SweepDeadlines fires every deadline due at nowUsec and returns how many
// microseconds the caller may wait before it must sweep again: 0 when the
// queue is empty afterwards, otherwise at least 1 (never 0 while something is
// pending, so the host loop cannot be told to sleep forever nor to busy-spin
// on a zero timeout).
func (x *Context) SweepDeadlines(nowUsec int64) int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.SweepDeadlinesLocked(nowUsec)
}

// SweepDeadlinesLocked is SweepDeadlines for callers already holding the
// context lock across the whole service tick.
func (x *Context) SweepDeadlinesLocked(nowUsec int64) int64 {
	x.sweeps.Add(1)

	// Stage due entries first: each is unlinked from the queue before any
	// callback runs, and a callback re-arming at or before nowUsec fires on
	// the next sweep, not this one.
	due := queue.New()
	for e := x.dq.Front(); e != nil; e = x.dq.Front() {
		c := e.Value.(*Conn)
		if c.deadlineAt > nowUsec {
			// sorted: everything behind it is further in the future
			break
		}
		x.cancelDeadlineLocked(c)
		due.Add(c)
	}

	for due.Length() > 0 {
		c := due.Remove().(*Conn)
		x.deadlinesFired.Add(1)

		var err error
		if c.cb != nil {
			err = c.cb(c, api.CallbackTimer)
		}
		if err != nil {
			x.callbackFailures.Add(1)
			x.log.Debug().
				Uint64("conn", c.ID()).
				Err(fmt.Errorf("%w: %w", api.ErrCallbackFailed, err)).
				Log("timer callback errored, closing")
			if x.closer != nil {
				x.closer(c, api.CloseNoStatus, "timer cb errored")
			}
		}
	}

	// estimate of how many usec until the next deadline hits
	head := x.dq.Front()
	if head == nil {
		return 0
	}
	next := head.Value.(*Conn).deadlineAt
	now := x.clock.NowUsec()
	if next <= now {
		// already in the past, e.g. a callback re-armed with zero delay
		return 1
	}
	return next - now
}
