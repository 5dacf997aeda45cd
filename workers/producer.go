// File: workers/producer.go
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
var _ api.Worker = (*Producer[payload.Number])(nil)

// Producer repeatedly claims a row, fills its elements with values
// stamped by their absolute positions and releases the row to the
// consumer side.
type Producer[V api.Value] struct {
	name string
	ring api.RowBuffer[V]
	gen  payload.Generator[V]
	cpu  int // logical CPU to pin to, -1 for no pinning

	stop atomic.Bool
	done chan struct{}

	count     atomic.Uint64
	lastIndex atomic.Int64
	elapsed   atomic.Int64 // nanoseconds, recorded at run-loop exit
}

// StartProducer creates a producer and starts its run loop immediately.
func StartProducer[V api.Value](ring api.RowBuffer[V], gen payload.Generator[V], name string, cpu int) *Producer[V] {
	p := &Producer[V]{
		name: name,
		ring: ring,
		gen:  gen,
		cpu:  cpu,
		done: make(chan struct{}),
	}
	p.lastIndex.Store(-1)
	go p.run()
	return p
}

func (p *Producer[V]) run() {
	defer close(p.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if p.cpu >= 0 {
		if err := affinity.SetAffinity(p.cpu); err != nil {
			log.Printf("workers: %s: %v", p.name, err)
		}
	}

	sw := control.NewStopwatch()
	defer func() {
		sw.Stop()
		p.elapsed.Store(int64(sw.Elapsed()))
	}()

	for !p.stop.Load() {
		row, abs, ok := p.ring.ClaimProducer()
		if !ok {
			break // buffer stopped
		}
		if p.stop.Load() {
			break // abandon the claim; release-all reclaims the row
		}
		columns := p.ring.BufElemSize()
		elems := p.ring.Row(row)
		written := uint64(0)
		last := int64(-1)
		for col := uint64(0); col < columns; col++ {
			if p.stop.Load() {
				break
			}
			loc := int64(abs*columns + col)
			v := p.gen(loc)
			elems[col] = v
			last = v.Index()
			written++
		}
		if written < columns {
			// Stop hit mid-row. A partially written row must never reach
			// a consumer, so it is abandoned unreleased and uncounted;
			// release-all reclaims it.
			break
		}
		p.count.Add(written)
		p.lastIndex.Store(last)
		p.ring.ReleaseProducer(row)
	}
}

// Stop flags the run loop to exit. A claim in progress is unblocked by
// stopping the buffer, not the worker.
func (p *Producer[V]) Stop() { p.stop.Store(true) }

// Join blocks until the run loop has exited.
func (p *Producer[V]) Join() { <-p.done }

// Name returns the worker's name.
func (p *Producer[V]) Name() string { return p.name }

// Stats returns the current progress snapshot.
func (p *Producer[V]) Stats() WorkerStats {
	return WorkerStats{
		Count:     p.count.Load(),
		LastIndex: p.lastIndex.Load(),
		Elapsed:   time.Duration(p.elapsed.Load()),
	}
}
