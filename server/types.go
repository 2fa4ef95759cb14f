// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"

	"github.com/momentics/hioload-sched/adapters"
	"github.com/momentics/hioload-sched/api"
	"github.com/momentics/hioload-sched/internal/sched"
	"github.com/momentics/hioload-sched/internal/vhost"
)

// Config holds all service-side scheduling configuration parameters.
type Config struct {
	ServiceThreads   int // number of worker/service threads, one context each
	TimeoutSweepSecs int // cadence of the coarse timeout sweep, in seconds
	DefaultIdleSecs  int // default idle timeout armed by convenience helpers
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServiceThreads:   1,
		TimeoutSweepSecs: 1,
		DefaultIdleSecs:  300,
	}
}

// Service is the high-level facade owning the per-thread scheduling contexts,
// the vhost registry, and the control surface.
type Service struct {
	cfg      *Config
	clock    api.Clock
	closer   api.CloseFunc
	log      *logiface.Logger[logiface.Event]
	contexts []*sched.Context
	vhostReg *vhost.Registry
	control  *adapters.ControlAdapter

	mu            sync.Mutex
	vhosts        map[string]*vhost.Vhost
	vhostDispatch func(vh *vhost.Vhost, tc *vhost.TimedCallback)

	// optional CPU pinning map, service thread index -> logical CPU
	threadCPUs []int

	// wall secs of each thread's previous coarse sweep
	lastTimeoutSweep []atomic.Int64

	nextConnID atomic.Uint64
}
