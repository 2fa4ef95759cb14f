// File: internal/sched/context.go
// Package sched
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-thread context owning the coarse timeout registry and the deadline
// queue, together with the lock that serializes all mutation of both.

package sched

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"

	"github.com/momentics/hioload-sched/api"
)

// Context is the scheduling state owned by one service thread. Both lists are
// empty at creation and must be empty, or drained via Drain, at teardown.
type Context struct {
	tsi    int
	mu     sync.Mutex
	clock  api.Clock
	closer api.CloseFunc
	log    *logiface.Logger[logiface.Event]

	// coarse timeout registry: unordered membership, walked only in full
	registry map[uint64]*Conn

	// deadline queue: *Conn ordered by deadlineAt, plus an ID index for
	// O(1) removal
	dq      *list.List
	dqIndex map[uint64]*list.Element

	sweeps           atomic.Uint64
	deadlinesFired   atomic.Uint64
	callbackFailures atomic.Uint64
	timeoutsExpired  atomic.Uint64
}

// Stats is a point-in-time snapshot of a Context's counters.
type Stats struct {
	Sweeps           uint64
	DeadlinesFired   uint64
	CallbackFailures uint64
	TimeoutsExpired  uint64
}

// NewContext creates the scheduling context for service thread tsi. closer is
// the destruction delegate invoked on callback failure and synchronous kill;
// log may be nil.
func NewContext(tsi int, clk api.Clock, closer api.CloseFunc, log *logiface.Logger[logiface.Event]) *Context {
	return &Context{
		tsi:      tsi,
		clock:    clk,
		closer:   closer,
		log:      log,
		registry: make(map[uint64]*Conn),
		dq:       list.New(),
		dqIndex:  make(map[uint64]*list.Element),
	}
}

// ThreadIndex returns the owning service thread index.
func (x *Context) ThreadIndex() int { return x.tsi }

// Lock acquires this thread's scheduling lock. Callers batching several
// *Locked operations take it once around the whole batch.
func (x *Context) Lock() { x.mu.Lock() }

// Unlock releases this thread's scheduling lock.
func (x *Context) Unlock() { x.mu.Unlock() }

// QueueDepth reports the number of connections with an active deadline.
func (x *Context) QueueDepth() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.dq.Len()
}

// RegistrySize reports the number of connections with an armed coarse timeout.
func (x *Context) RegistrySize() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.registry)
}

// Stats returns a snapshot of the context's counters.
func (x *Context) Stats() Stats {
	return Stats{
		Sweeps:           x.sweeps.Load(),
		DeadlinesFired:   x.deadlinesFired.Load(),
		CallbackFailures: x.callbackFailures.Load(),
		TimeoutsExpired:  x.timeoutsExpired.Load(),
	}
}

// Drain force-clears both lists without firing callbacks and returns the
// number of entries released. Used at context teardown.
func (x *Context) Drain() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	n := len(x.registry) + x.dq.Len()
	for id, c := range x.registry {
		c.timeoutReason = api.TimeoutNone
		delete(x.registry, id)
	}
	for e := x.dq.Front(); e != nil; e = x.dq.Front() {
		c := e.Value.(*Conn)
		c.deadlineAt = 0
		x.dq.Remove(e)
		delete(x.dqIndex, c.ID())
	}
	if n > 0 {
		x.log.Debug().Int("tsi", x.tsi).Int("entries", n).Log("context drained")
	}
	return n
}
