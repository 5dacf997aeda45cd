// Package api
// Author: momentics
//
// Worker contract for harness producers and consumers.

package api

// Worker is a producer or consumer goroutine driving a RowBuffer until
// stopped.
type Worker interface {
	// Stop flags the worker to exit its run loop. It does not unblock a
	// claim in progress; stopping the buffer does that.
	Stop()

	// Join blocks until the worker's run loop has exited.
	Join()
}
