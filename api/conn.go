// File: api/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection handle contract shared by the scheduling core and the host.

package api

// Conn is the scheduling core's view of a managed session. The host's
// connection object implements it; the core never owns the connection and
// never outlives list membership past destruction.
type Conn interface {
	// ID returns the stable, service-unique connection identifier.
	ID() uint64

	// ThreadIndex returns the index of the service thread owning this
	// connection's scheduling state.
	ThreadIndex() int

	// UserData returns the opaque per-connection state passed to callbacks.
	UserData() any
}

// CloseStatus mirrors websocket-style close codes used when the core
// delegates connection destruction.
type CloseStatus int

const (
	CloseNoStatus        CloseStatus = 0
	CloseNormal          CloseStatus = 1000
	CloseGoingAway       CloseStatus = 1001
	ClosePolicyViolation CloseStatus = 1008
)

// CloseFunc is the single destruction delegate consumed by the core. It must
// remove the connection from any remaining scheduling lists (the core has
// already released the entry that triggered the call), and it is always
// invoked with the owning per-thread context lock held, so it must use the
// *Locked scheduler variants for any further bookkeeping.
type CloseFunc func(c Conn, status CloseStatus, reason string)
