// Package api
// Author: momentics
//
// Typed introspection contract for the ring and its harness.

package api

// RingState is one probe's snapshot of a row ring: geometry, cursor
// positions and the claim counters accumulated since the ring was
// created (Reset does not clear them).
type RingState struct {
	Capacity uint64
	Rows     uint64
	Columns  uint64

	ProdLoc uint64
	ConsLoc uint64
	Stopped bool

	ProducerClaims uint64
	ConsumerClaims uint64
	ProducerWaits  uint64
	ConsumerWaits  uint64
	StaleReclaims  uint64
}

// Debug exposes ring-state probes for diagnostics, dumped when the
// verifier trips.
type Debug interface {
	// DumpState snapshots every registered probe.
	DumpState() map[string]RingState

	// RegisterProbe adds a named ring-state probe.
	RegisterProbe(name string, fn func() RingState)
}
