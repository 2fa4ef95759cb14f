// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// control_test.go — ConfigStore, MetricsRegistry, and DebugProbes coverage.
package control_test

import (
	"testing"

	"github.com/momentics/hioload-sched/control"
)

func TestMetricsRegistry_Basic(t *testing.T) {
	reg := control.NewMetricsRegistry()
	reg.Set("foo.count", int64(42))
	reg.Set("bar.status", "ok")

	metrics := reg.GetSnapshot()
	if metrics["foo.count"] != int64(42) {
		t.Error("MetricsRegistry: value mismatch")
	}
	if metrics["bar.status"] != "ok" {
		t.Error("MetricsRegistry: string value mismatch")
	}
}

func TestMetricsRegistry_Counters(t *testing.T) {
	reg := control.NewMetricsRegistry()
	reg.Add("sweeps", 1)
	reg.Add("sweeps", 2)

	if got := reg.Counter("sweeps"); got != 3 {
		t.Errorf("Counter: got %d, want 3", got)
	}
	if got := reg.Counter("missing"); got != 0 {
		t.Errorf("Counter on unknown key: got %d, want 0", got)
	}
	if reg.GetSnapshot()["sweeps"] != uint64(3) {
		t.Error("GetSnapshot must include counters")
	}
}

func TestConfigStore_GetInt(t *testing.T) {
	cs := control.NewConfigStore()
	cs.SetConfig(map[string]any{
		"a": 5,
		"b": int64(6),
		"c": 7.0,
		"d": "nope",
	})

	cases := []struct {
		key  string
		want int
	}{
		{"a", 5},
		{"b", 6},
		{"c", 7},
		{"d", 9}, // non-integer falls back to default
		{"e", 9}, // absent falls back to default
	}
	for _, tc := range cases {
		if got := cs.GetInt(tc.key, 9); got != tc.want {
			t.Errorf("GetInt(%q): got %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestDebugProbes_DumpState(t *testing.T) {
	dp := control.NewDebugProbes()
	n := 0
	dp.RegisterProbe("calls", func() any {
		n++
		return n
	})

	if dp.DumpState()["calls"] != 1 {
		t.Error("DumpState must evaluate probes")
	}
	if dp.DumpState()["calls"] != 2 {
		t.Error("probes must be re-evaluated per dump")
	}
}

func TestHotReloadHooks_Sync(t *testing.T) {
	fired := 0
	control.RegisterReloadHook(func() { fired++ })
	control.TriggerHotReloadSync()
	if fired != 1 {
		t.Errorf("reload hook fired %d times, want 1", fired)
	}
}
