// File: internal/concurrency/rowring.go
// Package concurrency implements the row-granular MPMC ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RowRing holds rows*columns payload elements. Producers and consumers
// claim one full row per atomic handoff and then write or read its
// elements without further synchronization, amortizing the CAS cost over
// the whole row. The same backing array can be resplit into any
// rows*columns factorization of the fixed capacity between runs.
// Implements api.RowBuffer for cross-package consistency.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-mq/api"
)

// Ensure compile-time interface compliance.
var _ api.RowBuffer[int] = (*RowRing[int])(nil)

// Per-row FSM states. All transitions are CAS-only except the two release
// stores and the stale-claim rollback, which are issued by the worker that
// owns the row, and the release-all reset run by Stop and Reset.
const (
	rowReadyForWrite uint32 = iota // available to a producer
	rowWriting                     // owned by one producer
	rowReadyForRead                // available to a consumer
	rowReading                     // owned by one consumer
)

// absUnset marks a row→abs map entry that no producer has claimed yet.
const absUnset int64 = -1

// RowRing is a bounded MPMC ring synchronized at row granularity.
//
// Reset and Reconfigure must not run concurrently with claims; they are
// single-threaded operations between runs. Everything else is safe from
// any number of goroutines.
type RowRing[V any] struct {
	capacity uint64 // rows*columns, fixed at construction
	rows     uint64
	columns  uint64

	buf      []V             // capacity payload elements, row-major
	status   []atomic.Uint32 // per-row FSM state, sized capacity so reshaping never reallocates
	rowToAbs []atomic.Int64  // per-row absolute identity, absUnset when free

	_       cpu.CacheLinePad
	prodLoc atomic.Uint64 // next absolute index to claim for writing
	_       cpu.CacheLinePad
	consLoc atomic.Uint64 // next absolute index to claim for reading
	_       cpu.CacheLinePad
	stopped atomic.Bool

	prodClaims    atomic.Uint64
	consClaims    atomic.Uint64
	prodWaits     atomic.Uint64
	consWaits     atomic.Uint64
	staleReclaims atomic.Uint64
}

// NewRowRing allocates a ring of the given total element capacity,
// initially shaped as capacity rows of one element each.
func NewRowRing[V any](capacity uint64) *RowRing[V] {
	if capacity == 0 {
		panic("rowring: capacity must be > 0")
	}
	r := &RowRing[V]{
		capacity: capacity,
		rows:     capacity,
		columns:  1,
		buf:      make([]V, capacity),
		status:   make([]atomic.Uint32, capacity),
		rowToAbs: make([]atomic.Int64, capacity),
	}
	r.releaseAllLocks()
	return r
}

// Reconfigure resplits the backing array into rows of columns elements.
// The buffer is left untouched when the shape does not multiply out to
// the fixed capacity.
func (r *RowRing[V]) Reconfigure(rows, columns uint64) error {
	if rows == 0 || columns == 0 || rows*columns != r.capacity {
		return &api.GeometryError{Rows: rows, Columns: columns, Capacity: r.capacity}
	}
	r.rows = rows
	r.columns = columns
	return nil
}

// Reset returns the ring to its initial state so the same allocation can
// be reused for the next run: cursors to zero, all rows ready for
// writing, all map entries unset, stop flag cleared.
func (r *RowRing[V]) Reset() {
	r.prodLoc.Store(0)
	r.consLoc.Store(0)
	r.releaseAllLocks()
	r.stopped.Store(false)
}

// Stop flags every claim loop to exit and force-releases all row locks.
// Idempotent. Row statuses and payload contents are undefined between
// Stop and the next Reset; workers blocked in claims observe the flag on
// their next poll and exit with ok=false.
func (r *RowRing[V]) Stop() {
	r.stopped.Store(true)
	r.releaseAllLocks()
}

// releaseAllLocks stores the initial state into every row status and map
// entry. Safe to run while workers spin in claim loops: they poll the
// stop flag each iteration and the run's statistics are frozen at stop.
func (r *RowRing[V]) releaseAllLocks() {
	for i := range r.status {
		r.status[i].Store(rowReadyForWrite)
		r.rowToAbs[i].Store(absUnset)
	}
}

// ClaimProducer blocks until a row is ready for writing, transitions it
// to WRITING and pins it to the next absolute producer index.
//
// Only the CAS winner advances prodLoc, so a plain store after the
// winning CAS is sufficient; sync/atomic's sequential consistency keeps
// the map store visible before the cursor advance.
func (r *RowRing[V]) ClaimProducer() (row, abs uint64, ok bool) {
	abs = r.prodLoc.Load()
	row = abs % r.rows
	for !r.status[row].CompareAndSwap(rowReadyForWrite, rowWriting) {
		if r.stopped.Load() {
			return 0, 0, false
		}
		r.prodWaits.Add(1)
		claimWait()
		// Another producer may have advanced prodLoc meanwhile.
		abs = r.prodLoc.Load()
		row = abs % r.rows
	}
	if r.stopped.Load() {
		// The row stays WRITING; Stop's release-all already covered it
		// or will, and the run is over either way.
		return 0, 0, false
	}
	r.rowToAbs[row].Store(int64(abs))
	r.prodLoc.Store(abs + 1)
	r.prodClaims.Add(1)
	return row, abs, true
}

// ClaimConsumer blocks until the row holding the next unconsumed absolute
// index is ready for reading and transitions it to READING.
func (r *RowRing[V]) ClaimConsumer() (row, abs uint64, ok bool) {
	return r.claimConsumerFrom(r.consLoc.Load())
}

// claimConsumerFrom runs the consumer claim protocol pinned initially to
// the given absolute index. Split out so tests can drive the stale-claim
// path deterministically.
//
// A ring index aliases every absolute index congruent to it modulo rows.
// A consumer pinned to abs may win the READING CAS only after another
// consumer already drained abs and a producer refilled the row for
// abs+rows; the row→abs map, written under the producer's row ownership,
// is the witness that exposes such stale claims.
func (r *RowRing[V]) claimConsumerFrom(abs uint64) (uint64, uint64, bool) {
	row := abs % r.rows
	for !r.stopped.Load() {
		for !r.status[row].CompareAndSwap(rowReadyForRead, rowReading) {
			if r.stopped.Load() {
				return 0, 0, false
			}
			r.consWaits.Add(1)
			claimWait()
			// Another consumer may have advanced consLoc meanwhile.
			abs = r.consLoc.Load()
			row = abs % r.rows
		}
		if r.rowToAbs[row].Load() == int64(abs) {
			// The row still carries the pass this claim is pinned to.
			if r.stopped.Load() {
				return 0, 0, false
			}
			r.consLoc.Store(abs + 1)
			r.consClaims.Add(1)
			return row, abs, true
		}
		// Stale claim: abs was drained by another consumer and the row
		// has been rewritten for a later pass. Hand the row back so a
		// consumer pinned to the new pass can take it, then re-pin to
		// the current cursor.
		r.staleReclaims.Add(1)
		r.status[row].Store(rowReadyForRead)
		abs = r.consLoc.Load()
		row = abs % r.rows
	}
	return 0, 0, false
}

// ReleaseProducer hands a fully written row to the consumer side.
func (r *RowRing[V]) ReleaseProducer(row uint64) {
	r.status[row].Store(rowReadyForRead)
}

// ReleaseConsumer hands a fully read row back to the producer side.
func (r *RowRing[V]) ReleaseConsumer(row uint64) {
	r.status[row].Store(rowReadyForWrite)
}

// Row returns the run of columns elements backing the given row. Valid
// only between a successful claim and the matching release.
func (r *RowRing[V]) Row(row uint64) []V {
	off := row * r.columns
	return r.buf[off : off+r.columns]
}

// BufSize returns the current number of rows.
func (r *RowRing[V]) BufSize() uint64 { return r.rows }

// BufElemSize returns the current number of elements per row.
func (r *RowRing[V]) BufElemSize() uint64 { return r.columns }

// Cap returns the fixed total element capacity.
func (r *RowRing[V]) Cap() uint64 { return r.capacity }

// Stats is a point-in-time snapshot of the ring's claim counters.
type Stats struct {
	ProducerClaims uint64
	ConsumerClaims uint64
	ProducerWaits  uint64
	ConsumerWaits  uint64
	StaleReclaims  uint64
}

// Stats returns the current claim counters.
func (r *RowRing[V]) Stats() Stats {
	return Stats{
		ProducerClaims: r.prodClaims.Load(),
		ConsumerClaims: r.consClaims.Load(),
		ProducerWaits:  r.prodWaits.Load(),
		ConsumerWaits:  r.consWaits.Load(),
		StaleReclaims:  r.staleReclaims.Load(),
	}
}

// Snapshot reports ring state for debug probes.
func (r *RowRing[V]) Snapshot() api.RingState {
	s := r.Stats()
	return api.RingState{
		Capacity:       r.capacity,
		Rows:           r.rows,
		Columns:        r.columns,
		ProdLoc:        r.prodLoc.Load(),
		ConsLoc:        r.consLoc.Load(),
		Stopped:        r.stopped.Load(),
		ProducerClaims: s.ProducerClaims,
		ConsumerClaims: s.ConsumerClaims,
		ProducerWaits:  s.ProducerWaits,
		ConsumerWaits:  s.ConsumerWaits,
		StaleReclaims:  s.StaleReclaims,
	}
}
