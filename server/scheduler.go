// File: server/scheduler.go
// Package server exposes Scheduler for per-thread timeout and deadline work.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-sched/adapters"
	"github.com/momentics/hioload-sched/api"
)

// Scheduler returns the api.Scheduler surface for service thread tsi.
func (s *Service) Scheduler(tsi int) (api.Scheduler, error) {
	ctx, err := s.Context(tsi)
	if err != nil {
		return nil, err
	}
	return adapters.NewSchedulerAdapter(ctx), nil
}
