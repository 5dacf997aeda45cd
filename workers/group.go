// File: workers/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Group bundles the producer/consumer population of one benchmark run:
// start everything, stop everything, join, aggregate.

package workers

import (
	"fmt"
	"runtime"

	"github.com/momentics/hioload-mq/api"
	"github.com/momentics/hioload-mq/payload"
)

// Ensure compile-time interface compliance.
var _ api.GracefulShutdown = (*Group[payload.Number])(nil)

// Config describes a worker population.
type Config struct {
	Producers int
	Consumers int
	// PinCPUs assigns workers round-robin to logical CPUs. Off by
	// default; claim loops already yield, pinning only sharpens
	// benchmark numbers on otherwise idle machines.
	PinCPUs bool
	// OnViolation handles verifier failures. Nil selects
	// ExitOnViolation.
	OnViolation func(Violation)
}

// Group is a running population of producers and consumers on one ring.
type Group[V api.Value] struct {
	ring      api.RowBuffer[V]
	producers []*Producer[V]
	consumers []*Consumer[V]
}

// StartGroup starts cfg.Producers producers and cfg.Consumers consumers
// on the ring. Workers run immediately; the caller stops them after the
// measurement interval.
//
// The own-sequence order check is enabled only for the single-producer,
// single-consumer population; it does not hold globally otherwise.
func StartGroup[V api.Value](ring api.RowBuffer[V], gen payload.Generator[V], cfg Config) *Group[V] {
	onViolation := cfg.OnViolation
	if onViolation == nil {
		onViolation = ExitOnViolation
	}
	checkOrder := cfg.Producers <= 1 && cfg.Consumers <= 1

	g := &Group[V]{
		ring:      ring,
		producers: make([]*Producer[V], cfg.Producers),
		consumers: make([]*Consumer[V], cfg.Consumers),
	}
	cpus := runtime.NumCPU()
	pin := func(i int) int {
		if !cfg.PinCPUs {
			return -1
		}
		return i % cpus
	}
	for i := range g.producers {
		g.producers[i] = StartProducer(ring, gen, fmt.Sprintf("prod %03d", i), pin(i))
	}
	for i := range g.consumers {
		g.consumers[i] = StartConsumer(ring, gen, fmt.Sprintf("cons %03d", i), pin(cfg.Producers+i), checkOrder, onViolation)
	}
	return g
}

// Stop flags every worker, then stops the ring so blocked claims exit.
func (g *Group[V]) Stop() {
	for _, p := range g.producers {
		p.Stop()
	}
	for _, c := range g.consumers {
		c.Stop()
	}
	g.ring.Stop()
}

// Join waits for every worker's run loop to exit, consumers first.
func (g *Group[V]) Join() {
	for _, c := range g.consumers {
		c.Join()
	}
	for _, p := range g.producers {
		p.Join()
	}
}

// Shutdown stops and joins the population.
func (g *Group[V]) Shutdown() error {
	g.Stop()
	g.Join()
	return nil
}

// Producers returns the producer workers.
func (g *Group[V]) Producers() []*Producer[V] { return g.producers }

// Consumers returns the consumer workers.
func (g *Group[V]) Consumers() []*Consumer[V] { return g.consumers }

// Totals aggregates worker statistics. Call after Join; elapsed times are
// recorded at run-loop exit.
func (g *Group[V]) Totals() Totals {
	t := Totals{LastProduced: -1, LastConsumed: -1}
	for _, p := range g.producers {
		s := p.Stats()
		t.Produced += s.Count
		t.ProducerElapsed += s.Elapsed
		if s.LastIndex > t.LastProduced {
			t.LastProduced = s.LastIndex
		}
	}
	for _, c := range g.consumers {
		s := c.Stats()
		t.Consumed += s.Count
		t.ConsumerElapsed += s.Elapsed
		if s.LastIndex > t.LastConsumed {
			t.LastConsumed = s.LastIndex
		}
		t.Violations += c.Violations()
	}
	return t
}
