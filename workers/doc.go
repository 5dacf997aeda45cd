// File: workers/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer and consumer workers driving a row ring until stopped.
//
// Each worker owns a dedicated goroutine locked to its OS thread and
// optionally pinned to a CPU. A producer claims a row, stamps every
// element with its absolute index and releases the row to the consumer
// side; a consumer claims a row, verifies each element against its
// absolute position and releases the row back. Group bundles a worker
// population for one benchmark run.
package workers
