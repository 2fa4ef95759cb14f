// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Public contracts for the hioload-sched timeout and deadline-scheduling core.
//
// The api package defines the boundary between the scheduling core and its
// host service: connection handles, clock sources, protocol callback dispatch,
// the close/release delegate, and the per-thread scheduler surface. All
// implementations live under internal/ and are exposed through the server
// facade and adapters packages.
package api
