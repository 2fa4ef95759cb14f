// File: internal/vhost/scheduler.go
// Package vhost
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Schedule, cancel, and drain operations over vhost deferred callbacks,
// guarded by the process-wide Registry lock plus the per-vhost lock.

package vhost

import (
	"sync"

	"github.com/joeycumines/logiface"

	"github.com/momentics/hioload-sched/api"
)

// ServiceThread identifies the service thread a caller runs on. Per-thread
// scheduling contexts implement it; callers outside any service thread pass
// nil and are resolved to thread 0.
type ServiceThread interface {
	ThreadIndex() int
}

// Registry holds the process-wide lock ordered above every vhost lock, the
// clock, and the open/closed state of deferred scheduling.
type Registry struct {
	mu     sync.Mutex
	clock  api.Clock
	log    *logiface.Logger[logiface.Event]
	closed bool
}

// NewRegistry creates the process-wide deferred-callback registry.
func NewRegistry(clk api.Clock, log *logiface.Logger[logiface.Event]) *Registry {
	return &Registry{clock: clk, log: log}
}

// Lock acquires the process-wide lock. Fixed order: Registry lock first,
// vhost lock second; release in reverse.
func (r *Registry) Lock() { r.mu.Lock() }

// Unlock releases the process-wide lock.
func (r *Registry) Unlock() { r.mu.Unlock() }

// Close rejects further Schedule calls. Pending entries stay cancellable and
// drainable.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Schedule creates a deferred callback against vh, firing delaySecs from now
// on the caller's service thread (thread 0 when caller is nil). On error
// nothing is allocated or linked.
func (r *Registry) Schedule(vh *Vhost, protocol string, reason, delaySecs int, caller ServiceThread) (*TimedCallback, error) {
	if vh == nil || protocol == "" {
		return nil, api.ErrInvalidArgument
	}

	tsi := 0
	if caller != nil {
		tsi = caller.ThreadIndex()
	}
	if tsi < 0 {
		tsi = 0
	}

	r.mu.Lock() // process ----------------------------------------------------
	if r.closed {
		r.mu.Unlock()
		return nil, api.ErrSchedulerClosed
	}

	p := &TimedCallback{
		Protocol:     protocol,
		Reason:       reason,
		FireAt:       r.clock.NowSecs() + int64(delaySecs),
		TargetThread: tsi,
	}

	vh.mu.Lock() // vhost -----------------------------------------------------
	vh.timed = append(vh.timed, p)
	vh.mu.Unlock() // --------------------------------------------------- vhost

	r.mu.Unlock() // ------------------------------------------------- process

	r.log.Debug().
		Str("vhost", vh.name).
		Str("protocol", protocol).
		Int("reason", reason).
		Int("delay_secs", delaySecs).
		Int("tsi", tsi).
		Log("vhost callback scheduled")

	return p, nil
}

// CancelLocked unlinks p from vh by identity and destroys it. Precondition,
// not re-checked here: the caller holds both the Registry and the vhost lock,
// letting batch sweeps avoid repeated lock round-trips. Returns
// api.ErrNotFound when p is not present, e.g. already fired and drained; that
// is a normal outcome, not a fault.
func (r *Registry) CancelLocked(vh *Vhost, p *TimedCallback) error {
	for i, q := range vh.timed {
		if q == p {
			vh.timed = append(vh.timed[:i], vh.timed[i+1:]...)
			return nil
		}
	}
	return api.ErrNotFound
}

// Drain removes every entry of vh due at nowSecs whose target is service
// thread tsi (tsi < 0 matches any thread) and hands it to dispatch. Relative
// execution order between due entries is unspecified. Dispatch runs after
// both locks are released. Returns the number of entries executed.
func (r *Registry) Drain(vh *Vhost, nowSecs int64, tsi int, dispatch func(*TimedCallback)) int {
	r.mu.Lock()
	vh.mu.Lock()

	var due []*TimedCallback
	kept := vh.timed[:0]
	for _, p := range vh.timed {
		if p.FireAt <= nowSecs && (tsi < 0 || p.TargetThread == tsi) {
			due = append(due, p)
		} else {
			kept = append(kept, p)
		}
	}
	vh.timed = kept

	vh.mu.Unlock()
	r.mu.Unlock()

	for _, p := range due {
		if dispatch != nil {
			dispatch(p)
		}
	}
	if len(due) > 0 {
		r.log.Debug().
			Str("vhost", vh.name).
			Int("fired", len(due)).
			Log("vhost callbacks drained")
	}
	return len(due)
}
