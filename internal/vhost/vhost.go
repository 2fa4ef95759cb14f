// File: internal/vhost/vhost.go
// Package vhost
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Vhost object and its deferred-callback entry list.

package vhost

import "sync"

// TimedCallback is one scheduled, connection-independent action. It is a
// value object: the connection layer holds no reference to it, and it is
// destroyed by CancelLocked or consumed by Drain. Identity (pointer equality)
// is the cancellation handle.
type TimedCallback struct {
	Protocol     string
	Reason       int
	FireAt       int64 // absolute wall-clock seconds
	TargetThread int   // service thread that should execute the callback
}

// Vhost is a logical grouping of protocols sharing deferred callbacks.
type Vhost struct {
	name string
	mu   sync.Mutex
	// newest first; order is irrelevant, entries are matched by identity
	// and drained by fire time
	timed []*TimedCallback
}

// NewVhost creates an empty vhost.
func NewVhost(name string) *Vhost {
	return &Vhost{name: name}
}

// Name returns the vhost identifier.
func (v *Vhost) Name() string { return v.name }

// Lock acquires the vhost lock. The process-wide Registry lock must already
// be held; taking them in any other order anywhere in the system is a
// deadlock bug.
func (v *Vhost) Lock() { v.mu.Lock() }

// Unlock releases the vhost lock.
func (v *Vhost) Unlock() { v.mu.Unlock() }

// PendingLocked reports the number of scheduled entries. Caller must hold
// both the Registry and vhost locks.
func (v *Vhost) PendingLocked() int { return len(v.timed) }
