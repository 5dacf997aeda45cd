// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Ring-state probe registry. The driver registers one probe per ring;
// a verifier failure dumps them all so the diagnostic line is followed
// by the cursor positions and claim counters that led up to it.

package control

import (
	"sync"

	"github.com/momentics/hioload-mq/api"
)

// Ensure compile-time interface compliance.
var _ api.Debug = (*DebugProbes)(nil)

// DebugProbes maps probe names to ring-state snapshots.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() api.RingState
}

// NewDebugProbes creates an empty probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{probes: make(map[string]func() api.RingState)}
}

// RegisterProbe adds a named ring-state probe. A later registration
// under the same name replaces the earlier one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() api.RingState) {
	dp.mu.Lock()
	dp.probes[name] = fn
	dp.mu.Unlock()
}

// DumpState snapshots every registered probe. Probes read live atomics,
// so a dump taken mid-run is a best-effort cut, which is all a
// diagnostic needs.
func (dp *DebugProbes) DumpState() map[string]api.RingState {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]api.RingState, len(dp.probes))
	for name, fn := range dp.probes {
		out[name] = fn()
	}
	return out
}
