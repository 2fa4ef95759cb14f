// File: server/options.go
// Package server defines functional options for the Service facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/joeycumines/logiface"

	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/vhost"
)

// ServiceOption customizes service initialization.
type ServiceOption func(*Service)

// WithClock overrides the default monotonic/wall clock, e.g. with a manual
// clock in tests.
func WithClock(clk api.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clk
	}
}

// WithCloser sets the connection destruction delegate the scheduling core
// hands terminated connections to.
func WithCloser(fn api.CloseFunc) ServiceOption {
	return func(s *Service) {
		s.closer = fn
	}
}

// WithLogger attaches a structured logger; nil disables logging.
func WithLogger(log *logiface.Logger[logiface.Event]) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// WithVhostDispatch sets the handler executing drained vhost deferred
// callbacks. Without it, due entries are removed but not dispatched.
func WithVhostDispatch(fn func(vh *vhost.Vhost, tc *vhost.TimedCallback)) ServiceOption {
	return func(s *Service) {
		s.vhostDispatch = fn
	}
}

// WithThreadCPUs maps each service thread index to a logical CPU for pinning
// via PinServiceThread. Threads beyond the slice stay unpinned.
func WithThreadCPUs(cpus []int) ServiceOption {
	return func(s *Service) {
		s.threadCPUs = cpus
	}
}
