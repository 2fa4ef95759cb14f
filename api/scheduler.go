// Package api
// Author: momentics
//
// Scheduler contract for per-thread connection timeout and deadline management.

package api

// Scheduler is the per-service-thread scheduling surface. Every method
// acquires the owning thread's lock internally; code already running under
// that lock (expiry callbacks, close delegates) must use the *Locked variants
// exposed by the concrete implementation instead.
type Scheduler interface {
	// ArmTimeout (re)arms the coarse timeout with the given reason and limit
	// in seconds. TimeoutNone disarms. KillSync and KillAsync are accepted
	// in place of secs.
	ArmTimeout(c Conn, reason TimeoutReason, secs int)

	// DisarmTimeout removes the coarse timeout; safe on a non-member.
	DisarmTimeout(c Conn)

	// ScheduleDeadline (re)schedules the fine-grained deadline delayUsec
	// microseconds from now, or cancels it when delayUsec is CancelDeadline.
	ScheduleDeadline(c Conn, delayUsec int64)

	// SweepDeadlines fires every deadline due at nowUsec and returns the
	// number of microseconds the caller may wait before the next sweep:
	// 0 when nothing is pending, otherwise at least 1.
	SweepDeadlines(nowUsec int64) int64

	// SweepTimeouts expires every coarse timeout due at nowSecs.
	SweepTimeouts(nowSecs int64)
}
