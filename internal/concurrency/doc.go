// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Row-granular lock-free synchronization core for hioload-mq.
//
// The package implements the bounded MPMC row ring: a fixed array of
// payload elements split into rows, a four-state per-row FSM driven by
// CAS transitions, two monotonic claim cursors and the row→absolute-index
// map that keeps consumer claims ABA-safe. Claim loops never park on a
// condition variable; they poll with a microsecond yield so the FSM stays
// the single synchronization primitive.
package concurrency
