// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// deadline_test.go — Unit tests for the ordered deadline queue and its sweep.
package sched_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/clock"
	"github.com/momentics/hioload-sched/internal/sched"
)

// closeRecorder captures destruction requests handed to the close delegate.
type closeRecorder struct {
	mu     sync.Mutex
	closed []closedConn
}

type closedConn struct {
	id     uint64
	status api.CloseStatus
	reason string
}

func (r *closeRecorder) close(c api.Conn, status api.CloseStatus, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, closedConn{id: c.ID(), status: status, reason: reason})
}

func (r *closeRecorder) ids() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.closed))
	for i, c := range r.closed {
		out[i] = c.id
	}
	return out
}

func newTestContext() (*sched.Context, *clock.Manual, *closeRecorder) {
	clk := clock.NewManual(0, 0)
	rec := &closeRecorder{}
	ctx := sched.NewContext(0, clk, rec.close, nil)
	return ctx, clk, rec
}

func TestSweepOrderIsNonDecreasing(t *testing.T) {
	ctx, clk, _ := newTestContext()

	var fired []uint64
	cb := func(c api.Conn, reason api.CallbackReason) error {
		fired = append(fired, c.ID())
		return nil
	}

	// deliberately out-of-order delays
	delays := []int64{500, 100, 900, 300, 700, 200}
	for i, d := range delays {
		c := sched.NewConn(uint64(i+1), 0, cb, nil)
		ctx.ScheduleDeadline(c, d)
	}
	require.Equal(t, len(delays), ctx.QueueDepth())

	clk.SetUsec(1000)
	wait := ctx.SweepDeadlines(1000)
	require.EqualValues(t, 0, wait)
	require.Equal(t, []uint64{2, 6, 4, 1, 5, 3}, fired,
		"entries must fire in non-decreasing deadline order")
}

func TestEqualDeadlinesFireInScheduleOrder(t *testing.T) {
	ctx, clk, _ := newTestContext()

	var fired []string
	a := sched.NewConn(1, 0, func(api.Conn, api.CallbackReason) error { fired = append(fired, "a"); return nil }, nil)
	b := sched.NewConn(2, 0, func(api.Conn, api.CallbackReason) error { fired = append(fired, "b"); return nil }, nil)

	ctx.ScheduleDeadline(a, 100)
	ctx.ScheduleDeadline(b, 100)

	clk.SetUsec(100)
	ctx.SweepDeadlines(100)
	require.Equal(t, []string{"a", "b"}, fired)
}

func TestSweepFiresOnlyDueEntries(t *testing.T) {
	ctx, clk, _ := newTestContext()

	var fired []uint64
	cb := func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		return nil
	}
	for i, d := range []int64{100, 200, 300} {
		ctx.ScheduleDeadline(sched.NewConn(uint64(i+1), 0, cb, nil), d)
	}

	clk.SetUsec(250)
	wait := ctx.SweepDeadlines(250)

	require.Equal(t, []uint64{1, 2}, fired)
	require.Equal(t, 1, ctx.QueueDepth())
	require.EqualValues(t, 50, wait, "distance to the 300usec deadline")
}

func TestSweepEmptyQueueReturnsZero(t *testing.T) {
	ctx, _, _ := newTestContext()
	if got := ctx.SweepDeadlines(0); got != 0 {
		t.Errorf("sweep of empty queue = %d, want 0", got)
	}
}

func TestSweepNeverReturnsZeroWhileDue(t *testing.T) {
	ctx, clk, _ := newTestContext()

	// the callback re-arms itself with zero delay, leaving a deadline that
	// is already due when the sweep finishes
	var c *sched.Conn
	c = sched.NewConn(1, 0, func(api.Conn, api.CallbackReason) error {
		ctx.ScheduleDeadlineLocked(c, 0)
		return nil
	}, nil)
	ctx.ScheduleDeadline(c, 100)

	clk.SetUsec(100)
	wait := ctx.SweepDeadlines(100)
	require.EqualValues(t, 1, wait,
		"a due head after the sweep must yield 1, never 0")
	require.Equal(t, 1, ctx.QueueDepth())
}

func TestCancelIsIdempotent(t *testing.T) {
	ctx, clk, _ := newTestContext()

	fired := 0
	c := sched.NewConn(1, 0, func(api.Conn, api.CallbackReason) error {
		fired++
		return nil
	}, nil)

	// cancel while not a member: no-op
	ctx.ScheduleDeadline(c, api.CancelDeadline)
	require.Equal(t, 0, ctx.QueueDepth())
	require.EqualValues(t, 0, c.DeadlineAt())

	// queue survives: insert, cancel, cancel again, re-insert, sweep
	ctx.ScheduleDeadline(c, 100)
	ctx.ScheduleDeadline(c, api.CancelDeadline)
	ctx.ScheduleDeadline(c, api.CancelDeadline)
	require.Equal(t, 0, ctx.QueueDepth())

	ctx.ScheduleDeadline(c, 50)
	clk.SetUsec(60)
	ctx.SweepDeadlines(60)
	require.Equal(t, 1, fired)
	require.Equal(t, 0, ctx.QueueDepth())
}

func TestRescheduleMovesEntry(t *testing.T) {
	ctx, clk, _ := newTestContext()

	var fired []uint64
	cb := func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		return nil
	}
	a := sched.NewConn(1, 0, cb, nil)
	b := sched.NewConn(2, 0, cb, nil)
	ctx.ScheduleDeadline(a, 100)
	ctx.ScheduleDeadline(b, 200)

	// move a after b
	ctx.ScheduleDeadline(a, 300)
	require.Equal(t, 2, ctx.QueueDepth(), "reschedule must not duplicate the entry")

	clk.SetUsec(300)
	ctx.SweepDeadlines(300)
	require.Equal(t, []uint64{2, 1}, fired)
}

func TestCallbackFailureClosesOnlyThatConn(t *testing.T) {
	ctx, clk, rec := newTestContext()

	var fired []uint64
	ok := func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		return nil
	}
	bad := func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		return fmt.Errorf("protocol rejected timer")
	}

	ctx.ScheduleDeadline(sched.NewConn(1, 0, ok, nil), 100)
	ctx.ScheduleDeadline(sched.NewConn(2, 0, bad, nil), 200)
	ctx.ScheduleDeadline(sched.NewConn(3, 0, ok, nil), 300)

	clk.SetUsec(1000)
	ctx.SweepDeadlines(1000)

	require.Equal(t, []uint64{1, 2, 3}, fired, "failure must not abort the sweep")
	require.Equal(t, []uint64{2}, rec.ids())
	require.Equal(t, "timer cb errored", rec.closed[0].reason)
}

func TestCallbackMayDestroyOwnConn(t *testing.T) {
	ctx, clk, rec := newTestContext()

	var fired []uint64
	ok := func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		return nil
	}

	// the middle entry tears itself down mid-sweep via the locked variants,
	// the way a close path would
	var self *sched.Conn
	self = sched.NewConn(2, 0, func(c api.Conn, _ api.CallbackReason) error {
		fired = append(fired, c.ID())
		ctx.DisarmTimeoutLocked(self)
		ctx.ScheduleDeadlineLocked(self, api.CancelDeadline)
		return fmt.Errorf("going away")
	}, nil)

	ctx.ScheduleDeadline(sched.NewConn(1, 0, ok, nil), 100)
	ctx.ScheduleDeadline(self, 200)
	ctx.ScheduleDeadline(sched.NewConn(3, 0, ok, nil), 300)

	clk.SetUsec(1000)
	wait := ctx.SweepDeadlines(1000)

	require.Equal(t, []uint64{1, 2, 3}, fired, "entries after a self-destroying callback must still fire")
	require.EqualValues(t, 0, wait)
	require.Equal(t, []uint64{2}, rec.ids())
}

func TestDeadlineUnlinkedBeforeCallback(t *testing.T) {
	ctx, clk, _ := newTestContext()

	var c *sched.Conn
	var sawDeadline int64 = -1
	c = sched.NewConn(1, 0, func(api.Conn, api.CallbackReason) error {
		// the lock is held here, reading the scheduling fields is legal
		sawDeadline = c.DeadlineAt()
		return nil
	}, nil)

	ctx.ScheduleDeadline(c, 100)
	clk.SetUsec(100)
	ctx.SweepDeadlines(100)

	require.EqualValues(t, 0, sawDeadline,
		"queue membership must be released before the callback runs")
}

func TestStatsCounters(t *testing.T) {
	ctx, clk, _ := newTestContext()

	bad := func(api.Conn, api.CallbackReason) error { return fmt.Errorf("boom") }
	ctx.ScheduleDeadline(sched.NewConn(1, 0, bad, nil), 10)
	clk.SetUsec(10)
	ctx.SweepDeadlines(10)
	ctx.SweepDeadlines(10)

	st := ctx.Stats()
	require.EqualValues(t, 2, st.Sweeps)
	require.EqualValues(t, 1, st.DeadlinesFired)
	require.EqualValues(t, 1, st.CallbackFailures)
}
