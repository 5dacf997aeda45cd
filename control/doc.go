// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, scoped timing and debug introspection for harness runs.
//
// Provides primitives used by the benchmark driver:
//   - Run log recording per-geometry results (safe for concurrent use)
//   - Scoped stopwatch recording elapsed wall-clock intervals (owned by
//     one goroutine; not synchronized)
//   - Ring-state probe registration, dumped on verifier failures (safe
//     for concurrent use)
package control
