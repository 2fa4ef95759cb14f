// File: server/service.go
// Package server implements the scheduling Service facade: per-thread context
// pool construction, vhost management, the per-tick service entry point, and
// control/metrics wiring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-sched/adapters"
	"github.com/momentics/hioload-sched/affinity"
	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/clock"
	"github.com/momentics/hioload-sched/internal/sched"
	"github.com/momentics/hioload-sched/internal/vhost"
)

// NewService builds the Service facade with one scheduling context per
// configured service thread.
func NewService(cfg *Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ServiceThreads <= 0 {
		return nil, api.ErrInvalidArgument
	}

	s := &Service{
		cfg:     cfg,
		clock:   clock.New(),
		control: adapters.NewControlAdapter(),
		vhosts:  make(map[string]*vhost.Vhost),
	}
	for _, o := range opts {
		o(s)
	}

	s.vhostReg = vhost.NewRegistry(s.clock, s.log)
	s.contexts = make([]*sched.Context, cfg.ServiceThreads)
	s.lastTimeoutSweep = make([]atomic.Int64, cfg.ServiceThreads)
	for i := range s.contexts {
		s.contexts[i] = sched.NewContext(i, s.clock, s.closer, s.log)
		tsi := i
		s.control.RegisterDebugProbe(fmt.Sprintf("sched.queue_depth.%d", tsi), func() any {
			return s.contexts[tsi].QueueDepth()
		})
		s.control.RegisterDebugProbe(fmt.Sprintf("sched.registry_size.%d", tsi), func() any {
			return s.contexts[tsi].RegistrySize()
		})
	}
	return s, nil
}

// Context returns the scheduling context owned by service thread tsi.
func (s *Service) Context(tsi int) (*sched.Context, error) {
	if tsi < 0 || tsi >= len(s.contexts) {
		return nil, api.ErrThreadOutOfRange
	}
	return s.contexts[tsi], nil
}

// NewConn allocates a connection record bound to service thread tsi.
func (s *Service) NewConn(tsi int, cb api.CallbackFunc, user any) (*sched.Conn, error) {
	if tsi < 0 || tsi >= len(s.contexts) {
		return nil, api.ErrThreadOutOfRange
	}
	return sched.NewConn(s.nextConnID.Add(1), tsi, cb, user), nil
}

// CreateVhost creates (or returns the existing) vhost by name.
func (s *Service) CreateVhost(name string) *vhost.Vhost {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vh, ok := s.vhosts[name]; ok {
		return vh
	}
	vh := vhost.NewVhost(name)
	s.vhosts[name] = vh
	return vh
}

// VhostRegistry exposes the process-wide deferred-callback registry.
func (s *Service) VhostRegistry() *vhost.Registry {
	return s.vhostReg
}

// GetControl exposes runtime metrics and debug control.
func (s *Service) GetControl() api.Control {
	return s.control
}

// ServiceTick runs one scheduling pass for thread tsi: the deadline sweep
// every call, the coarse timeout sweep at its configured cadence, and the
// vhost drain for entries targeted at this thread. It returns the maximum
// duration the host loop may block in poll/wait before calling again; zero
// means nothing is pending on the deadline queue.
func (s *Service) ServiceTick(tsi int) (time.Duration, error) {
	if tsi < 0 || tsi >= len(s.contexts) {
		return 0, api.ErrThreadOutOfRange
	}
	ctx := s.contexts[tsi]

	// sweep cadence is hot-reloadable through the control surface
	cadence := s.control.ConfigInt("sched.timeout_sweep_secs", s.cfg.TimeoutSweepSecs)

	nowSecs := s.clock.NowSecs()
	last := s.lastTimeoutSweep[tsi].Load()
	if nowSecs-last >= int64(cadence) &&
		s.lastTimeoutSweep[tsi].CompareAndSwap(last, nowSecs) {
		ctx.SweepTimeouts(nowSecs)
		s.drainVhosts(tsi, nowSecs)
	}

	wait := ctx.SweepDeadlines(s.clock.NowUsec())
	s.publishStats(tsi)

	if wait == 0 {
		return 0, nil
	}
	return time.Duration(wait) * time.Microsecond, nil
}

// drainVhosts executes due deferred callbacks bound to thread tsi on every
// vhost. Entries targeted at other threads stay queued for their own tick.
func (s *Service) drainVhosts(tsi int, nowSecs int64) {
	s.mu.Lock()
	vhs := make([]*vhost.Vhost, 0, len(s.vhosts))
	for _, vh := range s.vhosts {
		vhs = append(vhs, vh)
	}
	s.mu.Unlock()

	for _, vh := range vhs {
		vh := vh
		s.vhostReg.Drain(vh, nowSecs, tsi, func(tc *vhost.TimedCallback) {
			if s.vhostDispatch != nil {
				s.vhostDispatch(vh, tc)
			}
		})
	}
}

func (s *Service) publishStats(tsi int) {
	st := s.contexts[tsi].Stats()
	prefix := fmt.Sprintf("sched.%d.", tsi)
	s.control.SetMetric(prefix+"sweeps", st.Sweeps)
	s.control.SetMetric(prefix+"deadlines_fired", st.DeadlinesFired)
	s.control.SetMetric(prefix+"callback_failures", st.CallbackFailures)
	s.control.SetMetric(prefix+"timeouts_expired", st.TimeoutsExpired)
}

// PinServiceThread locks the calling goroutine to its OS thread and, when a
// CPU mapping was configured for tsi, pins the thread to that CPU. Host event
// loops call it once at the top of their loop goroutine.
func (s *Service) PinServiceThread(tsi int) error {
	if tsi < 0 || tsi >= len(s.contexts) {
		return api.ErrThreadOutOfRange
	}
	if tsi >= len(s.threadCPUs) {
		runtime.LockOSThread()
		return nil
	}
	return affinity.PinLoop(s.threadCPUs[tsi])
}

// Drain force-clears every context's scheduling state, for service teardown.
// It returns the total number of released entries.
func (s *Service) Drain() int {
	total := 0
	for _, ctx := range s.contexts {
		total += ctx.Drain()
	}
	s.vhostReg.Close()
	return total
}

// Close is the strict teardown: it fails with ErrContextNotEmpty when any
// thread still has scheduled state, so leaked arms surface instead of being
// silently dropped. Hosts that want the forced teardown use Drain.
func (s *Service) Close() error {
	for _, ctx := range s.contexts {
		if ctx.QueueDepth() != 0 || ctx.RegistrySize() != 0 {
			return fmt.Errorf("%w: thread %d", api.ErrContextNotEmpty, ctx.ThreadIndex())
		}
	}
	s.vhostReg.Close()
	return nil
}
