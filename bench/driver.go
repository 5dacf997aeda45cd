// File: bench/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Benchmark driver: reuses one ring allocation across a sweep of row
// geometries, runs a worker population against each shape for a fixed
// wall-clock interval and reports per-message cost.

package bench

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/momentics/hioload-mq/api"
	"github.com/momentics/hioload-mq/control"
	"github.com/momentics/hioload-mq/payload"
	"github.com/momentics/hioload-mq/workers"
)

// Config parameterizes a sweep.
type Config struct {
	// Capacity is the fixed total element count rows*columns.
	Capacity uint64
	// Producers and Consumers size the worker population per run.
	Producers int
	Consumers int
	// Interval is the wall-clock measurement window per geometry.
	Interval time.Duration
	// PinCPUs pins workers round-robin to logical CPUs.
	PinCPUs bool
	// Out receives the header and one result line per geometry.
	// Defaults to os.Stdout.
	Out io.Writer
	// OnViolation handles verifier failures. Nil selects
	// workers.ExitOnViolation.
	OnViolation func(workers.Violation)
}

// DefaultConfig mirrors the conventional benchmark setup: ten million
// elements, two producers, two consumers, five seconds per geometry.
func DefaultConfig() Config {
	return Config{
		Capacity:  10_000_000,
		Producers: 2,
		Consumers: 2,
		Interval:  5 * time.Second,
		Out:       os.Stdout,
	}
}

// Result captures one geometry run.
type Result struct {
	Geometry
	Produced        uint64
	Consumed        uint64
	LastProduced    int64
	LastConsumed    int64
	ProducerElapsed time.Duration
	ConsumerElapsed time.Duration
	// MicrosPerMessage is summed producer time divided by messages
	// produced, in microseconds.
	MicrosPerMessage float64
	// LossFree reports the produced/consumed reconciliation; only
	// checked for the single-producer single-consumer population.
	LossFreeChecked bool
	LossFree        bool
}

// Driver runs geometry sweeps on one ring.
type Driver[V api.Value] struct {
	ring   api.RowBuffer[V]
	gen    payload.Generator[V]
	cfg    Config
	runs   *control.RunLog
	probes *control.DebugProbes
}

// NewDriver wires a driver to a ring and payload generator.
func NewDriver[V api.Value](ring api.RowBuffer[V], gen payload.Generator[V], cfg Config) *Driver[V] {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	d := &Driver[V]{
		ring:   ring,
		gen:    gen,
		cfg:    cfg,
		runs:   control.NewRunLog(),
		probes: control.NewDebugProbes(),
	}
	if s, ok := any(ring).(interface{ Snapshot() api.RingState }); ok {
		d.probes.RegisterProbe("rowring", s.Snapshot)
	}
	return d
}

// Runs returns the log of completed geometry runs.
func (d *Driver[V]) Runs() *control.RunLog { return d.runs }

// Probes returns the debug probe registry.
func (d *Driver[V]) Probes() *control.DebugProbes { return d.probes }

// Sweep runs every geometry in the plan and emits one result line per
// shape. The ring is reset and reconfigured between runs; workers never
// survive a shape change.
func (d *Driver[V]) Sweep() ([]Result, error) {
	fmt.Fprintln(d.cfg.Out, "Buffer row size  vs 100*usec/message")
	fmt.Fprintln(d.cfg.Out, "------------------------------------------------------")

	plan := Plan(d.cfg.Capacity)
	results := make([]Result, 0, plan.Length())
	for plan.Length() > 0 {
		geom := plan.Remove().(Geometry)
		res, err := d.runOne(geom)
		if err != nil {
			return results, err
		}
		fmt.Fprintf(d.cfg.Out, "%d ----------- %g\n", res.Columns, 100*res.MicrosPerMessage)
		results = append(results, res)
	}
	return results, nil
}

// runOne measures a single geometry.
func (d *Driver[V]) runOne(geom Geometry) (Result, error) {
	d.ring.Reset()
	if err := d.ring.Reconfigure(geom.Rows, geom.Columns); err != nil {
		return Result{}, err
	}

	sw := control.NewStopwatch()
	g := workers.StartGroup(d.ring, d.gen, workers.Config{
		Producers:   d.cfg.Producers,
		Consumers:   d.cfg.Consumers,
		PinCPUs:     d.cfg.PinCPUs,
		OnViolation: d.cfg.OnViolation,
	})
	time.Sleep(d.cfg.Interval)
	g.Stop()
	g.Join()
	sw.Stop()

	t := g.Totals()
	res := Result{
		Geometry:        geom,
		Produced:        t.Produced,
		Consumed:        t.Consumed,
		LastProduced:    t.LastProduced,
		LastConsumed:    t.LastConsumed,
		ProducerElapsed: t.ProducerElapsed,
		ConsumerElapsed: t.ConsumerElapsed,
	}
	if t.Produced > 0 {
		res.MicrosPerMessage = t.ProducerElapsed.Seconds() * 1e6 / float64(t.Produced)
	}
	if d.cfg.Producers <= 1 && d.cfg.Consumers <= 1 {
		// Only the 1P-1C population is loss-free by construction.
		res.LossFreeChecked = true
		res.LossFree = t.LastProduced == int64(t.Produced)-1 &&
			t.LastConsumed == int64(t.Consumed)-1
		if !res.LossFree {
			fmt.Fprintln(d.cfg.Out, "ERROR: mismatch between produced and consumed")
		}
	}
	d.runs.Record(control.RunRecord{
		Rows:             geom.Rows,
		Columns:          geom.Columns,
		Produced:         t.Produced,
		Consumed:         t.Consumed,
		LastProduced:     t.LastProduced,
		LastConsumed:     t.LastConsumed,
		MicrosPerMessage: res.MicrosPerMessage,
		WallTime:         sw.Elapsed(),
		Violations:       t.Violations,
	})
	return res, nil
}
