// File: api/timeout.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Coarse timeout reasons and the scheduling control values shared across the core.

package api

// TimeoutReason tags why a coarse (seconds-resolution) timeout is armed on a
// connection. TimeoutNone means no timeout is pending and removes the
// connection from the registry.
type TimeoutReason int

const (
	TimeoutNone TimeoutReason = iota
	TimeoutAwaitingConnect
	TimeoutEstablishing
	TimeoutIdle
	TimeoutAwaitingPong
	TimeoutClosingHandshake

	// TimeoutUserBase is the first value available for application-defined
	// timeout reasons.
	TimeoutUserBase TimeoutReason = 1000
)

func (r TimeoutReason) String() string {
	switch r {
	case TimeoutNone:
		return "none"
	case TimeoutAwaitingConnect:
		return "awaiting-connect"
	case TimeoutEstablishing:
		return "establishing"
	case TimeoutIdle:
		return "idle"
	case TimeoutAwaitingPong:
		return "awaiting-pong"
	case TimeoutClosingHandshake:
		return "closing-handshake"
	}
	if r >= TimeoutUserBase {
		return "user"
	}
	return "unknown"
}

// Special limit values accepted by ArmTimeout in place of a seconds count.
const (
	// KillSync requests synchronous termination: both scheduling lists are
	// released and the close delegate is called before ArmTimeout returns.
	KillSync = -1

	// KillAsync arms a zero-second timeout, expiring the connection on the
	// next coarse sweep.
	KillAsync = -2
)

// CancelDeadline is the sentinel delay that cancels a connection's
// fine-grained deadline instead of scheduling one.
const CancelDeadline int64 = -1
