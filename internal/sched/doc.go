// Package sched
// Author: momentics <momentics@gmail.com>
//
// Per-thread connection timeout and deadline scheduling core.
//
// Each service thread owns exactly one Context holding two structures: an
// unordered coarse-timeout registry (seconds resolution, wall clock) and a
// deadline queue sorted by absolute monotonic microsecond fire time. The host
// event loop drives both through the per-tick sweep operations and bounds its
// poll wait with the value SweepDeadlines returns.
//
// Locking follows the split the exported names encode: plain methods acquire
// the Context's own lock; *Locked variants assume the caller holds it. Expiry
// callbacks and the close delegate always run under the lock and therefore
// must use the *Locked variants to re-arm or cancel. Cross-thread arming of a
// connection owned by another service thread goes through that thread's
// Context, whose lock serializes all mutation.
package sched
