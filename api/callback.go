// File: api/callback.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Protocol callback dispatch contract invoked on timer and timeout expiry.

package api

// CallbackReason identifies why the protocol callback is being invoked.
type CallbackReason int

const (
	// CallbackTimer: the connection's fine-grained deadline fired.
	CallbackTimer CallbackReason = iota + 1

	// CallbackTimeout: the connection's coarse timeout elapsed.
	CallbackTimeout
)

func (r CallbackReason) String() string {
	switch r {
	case CallbackTimer:
		return "timer"
	case CallbackTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CallbackFunc is the protocol/application dispatch the core calls on expiry.
// A non-nil error is a request to terminate the connection; it never aborts
// processing of sibling entries. The callback runs with the owning per-thread
// context lock held and must use the *Locked scheduler variants to re-arm.
type CallbackFunc func(c Conn, reason CallbackReason) error
