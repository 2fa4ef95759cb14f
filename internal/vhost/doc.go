// Package vhost
// Author: momentics <momentics@gmail.com>
//
// Virtual-host deferred-callback scheduling, independent of any connection.
//
// Entries are bound to a vhost and a protocol name, carry an absolute
// wall-clock fire time and the index of the service thread that should
// execute them, and live in a list owned by the vhost. The lock hierarchy is
// distinct from the per-thread scheduling locks and fixed: the process-wide
// Registry lock is always taken before a vhost's own lock, and released in
// reverse order. CancelLocked deliberately does not re-acquire either lock so
// batch-cancellation sweeps can hold them across many calls.
package vhost
