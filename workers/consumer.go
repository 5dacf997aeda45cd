// File: workers/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package workers

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-mq/affinity"
	"github.com/momentics/hioload-mq/api"
	"github.com/momentics/hioload-mq/control"
	"github.com/momentics/hioload-mq/payload"
)

// Ensure compile-time interface compliance.
var _ api.Worker = (*Consumer[payload.Number])(nil)

// Consumer repeatedly claims a row, verifies its elements and releases
// the row back to the producer side.
//
// Two checks run per element: slot identity (the value at absolute
// position x reports index x) always, and own-sequence monotonicity only
// when checkOrder is set — with competing producers or consumers global
// order does not hold, slot identity still does.
type Consumer[V api.Value] struct {
	name        string
	ring        api.RowBuffer[V]
	gen         payload.Generator[V]
	cpu         int
	checkOrder  bool
	onViolation func(Violation)

	stop atomic.Bool
	done chan struct{}

	count      atomic.Uint64
	lastIndex  atomic.Int64
	violations atomic.Uint64
	elapsed    atomic.Int64 // nanoseconds, recorded at run-loop exit
}

// StartConsumer creates a consumer and starts its run loop immediately.
// onViolation must not be nil; ExitOnViolation is the conventional
// handler outside tests.
func StartConsumer[V api.Value](ring api.RowBuffer[V], gen payload.Generator[V], name string, cpu int, checkOrder bool, onViolation func(Violation)) *Consumer[V] {
	c := &Consumer[V]{
		name:        name,
		ring:        ring,
		gen:         gen,
		cpu:         cpu,
		checkOrder:  checkOrder,
		onViolation: onViolation,
		done:        make(chan struct{}),
	}
	c.lastIndex.Store(-1)
	go c.run()
	return c
}

func (c *Consumer[V]) run() {
	defer close(c.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if c.cpu >= 0 {
		if err := affinity.SetAffinity(c.cpu); err != nil {
			log.Printf("workers: %s: %v", c.name, err)
		}
	}

	sw := control.NewStopwatch()
	defer func() {
		sw.Stop()
		c.elapsed.Store(int64(sw.Elapsed()))
	}()

	prev := int64(-1)
	for !c.stop.Load() {
		row, abs, ok := c.ring.ClaimConsumer()
		if !ok {
			break // buffer stopped
		}
		if c.stop.Load() {
			break
		}
		columns := c.ring.BufElemSize()
		elems := c.ring.Row(row)
		read := uint64(0)
		for col := uint64(0); col < columns; col++ {
			if c.stop.Load() {
				break
			}
			cur := elems[col].Index()
			loc := int64(abs*columns + col)
			if c.checkOrder && cur < prev {
				c.fail(Violation{
					Kind: OutOfOrder, Worker: c.name,
					Row: row, Col: col, Abs: abs,
					Loc: loc, GotIndex: cur, PrevIndex: prev,
				})
				return
			}
			if cur != loc {
				c.fail(Violation{
					Kind: SlotIdentity, Worker: c.name,
					Row: row, Col: col, Abs: abs,
					Loc: loc, GotIndex: cur,
				})
				return
			}
			c.count.Add(1)
			c.lastIndex.Store(cur)
			prev = cur
			read++
			// Clear the consumed element to the index-0 sentinel so a
			// stale row is easy to spot in debug dumps.
			elems[col] = c.gen(0)
		}
		if read < columns {
			// Stop hit mid-row. The half-read row is abandoned rather
			// than handed back to producers; release-all reclaims it.
			break
		}
		c.ring.ReleaseConsumer(row)
	}
}

func (c *Consumer[V]) fail(v Violation) {
	c.violations.Add(1)
	c.onViolation(v)
}

// Stop flags the run loop to exit. A claim in progress is unblocked by
// stopping the buffer, not the worker.
func (c *Consumer[V]) Stop() { c.stop.Store(true) }

// Join blocks until the run loop has exited.
func (c *Consumer[V]) Join() { <-c.done }

// Name returns the worker's name.
func (c *Consumer[V]) Name() string { return c.name }

// Violations returns how many verifier failures this consumer reported.
func (c *Consumer[V]) Violations() uint64 { return c.violations.Load() }

// Stats returns the current progress snapshot.
func (c *Consumer[V]) Stats() WorkerStats {
	return WorkerStats{
		Count:     c.count.Load(),
		LastIndex: c.lastIndex.Load(),
		Elapsed:   time.Duration(c.elapsed.Load()),
	}
}
