// File: api/ring.go
// Package api defines the row-granular ring buffer contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A RowBuffer is a bounded MPMC ring that synchronizes at row granularity:
// producers and consumers claim an entire row of `columns` elements in one
// atomic handoff, then touch the elements without further coordination.

package api

// RowBuffer is the contract for a fixed-capacity, row-synchronized ring.
//
// The total capacity rows*columns is fixed at construction. Reset and
// Reconfigure are single-threaded operations between runs; every other
// method is safe for concurrent use by any number of producer and consumer
// goroutines.
type RowBuffer[V any] interface {
	// Reset returns the buffer to its initial state: both cursors zero,
	// every row ready for writing, every row→abs map entry unset and the
	// stop flag cleared.
	Reset()

	// Reconfigure splits the fixed capacity into rows of columns elements.
	// rows*columns must equal Cap; otherwise the buffer is left untouched
	// and ErrBadGeometry is returned.
	Reconfigure(rows, columns uint64) error

	// Stop flags all claim loops to exit and releases every row lock.
	// Idempotent. After Stop, row statuses and payload contents are
	// undefined until Reset; statistics must only be read after workers
	// have been joined.
	Stop()

	// ClaimProducer blocks until a row is ready for writing and returns
	// its ring index and the absolute index it is claimed for.
	// ok is false when the buffer was stopped; row and abs are then
	// meaningless and the caller must exit.
	ClaimProducer() (row, abs uint64, ok bool)

	// ClaimConsumer blocks until a row whose current contents belong to
	// the next unconsumed absolute index is ready for reading.
	// ok is false when the buffer was stopped.
	ClaimConsumer() (row, abs uint64, ok bool)

	// ReleaseProducer hands a fully written row over to the consumers.
	ReleaseProducer(row uint64)

	// ReleaseConsumer hands a fully read row back to the producers.
	ReleaseConsumer(row uint64)

	// Row returns the run of columns elements backing the given row.
	// The slice is valid only between a successful claim and the matching
	// release by the same worker.
	Row(row uint64) []V

	// BufSize returns the current number of rows.
	BufSize() uint64

	// BufElemSize returns the current number of elements per row.
	BufElemSize() uint64

	// Cap returns the fixed total element capacity.
	Cap() uint64
}
