// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// live in separate files (affinity_linux.go, affinity_windows.go, etc.)
// guarded by build tags.

package affinity

import "runtime"

// SetAffinity pins the current OS thread to a given logical CPU/core on
// supported platforms. On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// PinLoop prepares the calling goroutine to run a service loop on cpuID: it
// locks the goroutine to its OS thread, then sets the thread's affinity.
// The goroutine stays locked even when affinity setting fails, so per-thread
// scheduling state keeps a stable thread identity either way.
func PinLoop(cpuID int) error {
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}
