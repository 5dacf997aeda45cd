// File: workers/workers_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package workers_test

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-mq/internal/concurrency"
	"github.com/momentics/hioload-mq/payload"
	"github.com/momentics/hioload-mq/workers"
)

func newRing(t *testing.T, capacity, rows, columns uint64) *concurrency.RowRing[payload.Number] {
	t.Helper()
	r := concurrency.NewRowRing[payload.Number](capacity)
	if err := r.Reconfigure(rows, columns); err != nil {
		t.Fatal(err)
	}
	return r
}

// collector gathers verifier violations instead of exiting.
type collector struct {
	mu         sync.Mutex
	violations []workers.Violation
}

func (c *collector) handle(v workers.Violation) {
	c.mu.Lock()
	c.violations = append(c.violations, v)
	c.mu.Unlock()
}

func (c *collector) all() []workers.Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]workers.Violation(nil), c.violations...)
}

// drainAndStop stops the producer at a row boundary, waits for the
// consumer to catch up, then stops the ring and consumer. This makes the
// 1P-1C totals exactly comparable.
func drainAndStop(t *testing.T, ring *concurrency.RowRing[payload.Number], p *workers.Producer[payload.Number], c *workers.Consumer[payload.Number]) {
	t.Helper()

	p.Stop()
	p.Join()

	deadline := time.Now().Add(2 * time.Second)
	for c.Stats().Count < p.Stats().Count {
		if time.Now().After(deadline) {
			t.Fatalf("consumer stuck at %d of %d produced", c.Stats().Count, p.Stats().Count)
		}
		time.Sleep(time.Millisecond)
	}

	c.Stop()
	ring.Stop()
	c.Join()
}

// Single producer, single consumer on a 100x1 ring: every produced value
// is consumed, both sides end one short of their totals, nothing trips
// the verifier.
func TestSingleProducerSingleConsumerLossFree(t *testing.T) {
	ring := newRing(t, 100, 100, 1)
	col := &collector{}

	p := workers.StartProducer[payload.Number](ring, payload.NewNumber, "prod 000", -1)
	c := workers.StartConsumer[payload.Number](ring, payload.NewNumber, "cons 000", -1, true, col.handle)

	time.Sleep(100 * time.Millisecond)
	drainAndStop(t, ring, p, c)

	ps, cs := p.Stats(), c.Stats()
	if ps.Count == 0 {
		t.Fatal("nothing produced")
	}
	if ps.Count != cs.Count {
		t.Errorf("produced %d != consumed %d", ps.Count, cs.Count)
	}
	if ps.LastIndex != int64(ps.Count)-1 {
		t.Errorf("last produced %d, expected %d", ps.LastIndex, int64(ps.Count)-1)
	}
	if cs.LastIndex != int64(cs.Count)-1 {
		t.Errorf("last consumed %d, expected %d", cs.LastIndex, int64(cs.Count)-1)
	}
	if ps.Elapsed <= 0 || cs.Elapsed <= 0 {
		t.Error("elapsed time not recorded")
	}
	if v := col.all(); len(v) != 0 {
		t.Errorf("verifier violations: %v", v)
	}
}

// Same population on a 10x10 ring: wide rows keep the totals loss-free
// and every ring row goes through the full write/read cycle.
func TestWideRowsLossFree(t *testing.T) {
	ring := newRing(t, 100, 10, 10)
	col := &collector{}

	p := workers.StartProducer[payload.Number](ring, payload.NewNumber, "prod 000", -1)
	c := workers.StartConsumer[payload.Number](ring, payload.NewNumber, "cons 000", -1, true, col.handle)

	time.Sleep(100 * time.Millisecond)
	drainAndStop(t, ring, p, c)

	ps, cs := p.Stats(), c.Stats()
	if ps.Count != cs.Count || ps.Count == 0 {
		t.Errorf("produced %d, consumed %d", ps.Count, cs.Count)
	}
	if cs.LastIndex != int64(cs.Count)-1 {
		t.Errorf("last consumed %d, expected %d", cs.LastIndex, int64(cs.Count)-1)
	}
	// 100 elements per pass; anything past one pass proves each row cycled.
	if ps.Count < 100 {
		t.Errorf("expected at least one full pass (100 elements), produced %d", ps.Count)
	}
	if v := col.all(); len(v) != 0 {
		t.Errorf("verifier violations: %v", v)
	}
}

// Competing producers and consumers: global order does not hold, slot
// identity must.
func TestMultiWorkerSlotIdentity(t *testing.T) {
	ring := newRing(t, 10, 5, 2)
	col := &collector{}

	g := workers.StartGroup[payload.Number](ring, payload.NewNumber, workers.Config{
		Producers:   2,
		Consumers:   2,
		OnViolation: col.handle,
	})
	time.Sleep(50 * time.Millisecond)
	g.Stop()
	g.Join()

	totals := g.Totals()
	if totals.Produced == 0 || totals.Consumed == 0 {
		t.Errorf("no progress: %+v", totals)
	}
	if totals.Violations != 0 {
		t.Errorf("verifier violations: %v", col.all())
	}
}

// Degenerate single-row ring maximizes FSM contention; progress and slot
// identity must survive.
func TestSingleRowMaxContention(t *testing.T) {
	ring := newRing(t, 10, 1, 10)
	col := &collector{}

	g := workers.StartGroup[payload.Number](ring, payload.NewNumber, workers.Config{
		Producers:   2,
		Consumers:   2,
		OnViolation: col.handle,
	})
	time.Sleep(50 * time.Millisecond)
	g.Stop()
	g.Join()

	totals := g.Totals()
	if totals.Produced == 0 {
		t.Error("no progress on single-row ring")
	}
	if v := col.all(); len(v) != 0 {
		t.Errorf("verifier violations: %v", v)
	}
}

// Two consumers racing one producer on a tiny ring exercises the stale
// reclaim path; no consumer may ever surface a mismatched index.
func TestCompetingConsumersStayABASafe(t *testing.T) {
	ring := newRing(t, 4, 2, 2)
	col := &collector{}

	g := workers.StartGroup[payload.Number](ring, payload.NewNumber, workers.Config{
		Producers:   1,
		Consumers:   2,
		OnViolation: col.handle,
	})
	time.Sleep(100 * time.Millisecond)
	g.Stop()
	g.Join()

	if v := col.all(); len(v) != 0 {
		t.Errorf("verifier violations: %v", v)
	}
	if g.Totals().Consumed == 0 {
		t.Error("nothing consumed")
	}
	t.Logf("stale reclaims: %d", ring.Stats().StaleReclaims)
}

// Workers blocked in claim loops on a fully occupied ring must exit
// promptly once stopped.
func TestStopWhileBlocked(t *testing.T) {
	ring := newRing(t, 4, 4, 1)
	// Occupy every row so producers and consumers both block.
	for i := 0; i < 4; i++ {
		if _, _, ok := ring.ClaimProducer(); !ok {
			t.Fatal("pre-fill claim failed")
		}
	}
	col := &collector{}

	g := workers.StartGroup[payload.Number](ring, payload.NewNumber, workers.Config{
		Producers:   1,
		Consumers:   1,
		OnViolation: col.handle,
	})
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		g.Stop()
		g.Join()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after stop")
	}
	if v := col.all(); len(v) != 0 {
		t.Errorf("verifier violations: %v", v)
	}
}

// A corrupted element must trip the slot identity check and stop the
// consumer.
func TestSlotIdentityViolationDetected(t *testing.T) {
	ring := newRing(t, 4, 2, 2)

	row, _, ok := ring.ClaimProducer()
	if !ok {
		t.Fatal("claim failed")
	}
	elems := ring.Row(row)
	elems[0] = payload.NewNumber(5) // belongs at loc 5, planted at loc 0
	elems[1] = payload.NewNumber(1)
	ring.ReleaseProducer(row)

	col := &collector{}
	c := workers.StartConsumer[payload.Number](ring, payload.NewNumber, "cons 000", -1, false, col.handle)

	deadline := time.Now().Add(2 * time.Second)
	for len(col.all()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("violation not reported")
		}
		time.Sleep(time.Millisecond)
	}
	ring.Stop()
	c.Join()

	v := col.all()[0]
	if v.Kind != workers.SlotIdentity {
		t.Errorf("expected SlotIdentity violation, got %v", v.Kind)
	}
	if v.GotIndex != 5 || v.Loc != 0 {
		t.Errorf("violation detail: %+v", v)
	}
	if c.Violations() != 1 {
		t.Errorf("violation count: expected 1, got %d", c.Violations())
	}
}

func TestGroupShutdown(t *testing.T) {
	ring := newRing(t, 4, 2, 2)
	col := &collector{}

	g := workers.StartGroup[payload.Number](ring, payload.NewNumber, workers.Config{
		Producers:   1,
		Consumers:   1,
		PinCPUs:     true,
		OnViolation: col.handle,
	})
	time.Sleep(10 * time.Millisecond)
	if err := g.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if g.Totals().Produced == 0 {
		t.Error("no progress before shutdown")
	}
}

// The decimal-text payload must survive the same verifier checks as the
// numeric one.
func TestTextPayloadSlotIdentity(t *testing.T) {
	ring := concurrency.NewRowRing[payload.Text](20)
	if err := ring.Reconfigure(4, 5); err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var violations []workers.Violation
	handle := func(v workers.Violation) {
		mu.Lock()
		violations = append(violations, v)
		mu.Unlock()
	}

	g := workers.StartGroup[payload.Text](ring, payload.NewText, workers.Config{
		Producers:   1,
		Consumers:   1,
		OnViolation: handle,
	})
	time.Sleep(50 * time.Millisecond)
	g.Stop()
	g.Join()

	totals := g.Totals()
	if totals.Produced == 0 || totals.Consumed == 0 {
		t.Errorf("no progress: %+v", totals)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(violations) != 0 {
		t.Errorf("verifier violations: %v", violations)
	}
}
