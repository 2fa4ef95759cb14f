// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Scheduler adapter exposing a per-thread sched.Context through the
// api.Scheduler contract. The adapter narrows api.Conn handles back to the
// core's concrete connection record; handing it a foreign api.Conn
// implementation is a programming error and fails loudly rather than
// corrupting list state.

package adapters

import (
	"fmt"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/sched"
)

type SchedulerAdapter struct {
	ctx *sched.Context
}

// NewSchedulerAdapter wraps a per-thread context.
func NewSchedulerAdapter(ctx *sched.Context) *SchedulerAdapter {
	return &SchedulerAdapter{ctx: ctx}
}

var _ api.Scheduler = (*SchedulerAdapter)(nil)

func (s *SchedulerAdapter) ArmTimeout(c api.Conn, reason api.TimeoutReason, secs int) {
	s.ctx.ArmTimeout(mustConn(c), reason, secs)
}

func (s *SchedulerAdapter) DisarmTimeout(c api.Conn) {
	s.ctx.DisarmTimeout(mustConn(c))
}

func (s *SchedulerAdapter) ScheduleDeadline(c api.Conn, delayUsec int64) {
	s.ctx.ScheduleDeadline(mustConn(c), delayUsec)
}

func (s *SchedulerAdapter) SweepDeadlines(nowUsec int64) int64 {
	return s.ctx.SweepDeadlines(nowUsec)
}

func (s *SchedulerAdapter) SweepTimeouts(nowSecs int64) {
	s.ctx.SweepTimeouts(nowSecs)
}

func mustConn(c api.Conn) *sched.Conn {
	sc, ok := c.(*sched.Conn)
	if !ok {
		panic(fmt.Sprintf("adapters: api.Conn %T is not a sched.Conn", c))
	}
	return sc
}
