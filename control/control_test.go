// File: control/control_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control_test

import (
	"testing"
	"time"

	"github.com/momentics/hioload-mq/api"
	"github.com/momentics/hioload-mq/control"
)

func TestRunLogKeepsSweepOrder(t *testing.T) {
	l := control.NewRunLog()
	l.Record(control.RunRecord{Rows: 100, Columns: 1, Produced: 42})
	l.Record(control.RunRecord{Rows: 20, Columns: 5, Produced: 17})

	if l.Len() != 2 {
		t.Fatalf("Len: expected 2, got %d", l.Len())
	}
	runs := l.Runs()
	if runs[0].Columns != 1 || runs[1].Columns != 5 {
		t.Errorf("sweep order lost: %+v", runs)
	}
	if runs[0].Produced != 42 {
		t.Errorf("record content: %+v", runs[0])
	}

	// Runs returns a copy; mutating it must not touch the log.
	runs[0].Produced = 0
	if l.Runs()[0].Produced != 42 {
		t.Error("Runs aliases log state")
	}
}

func TestDebugProbesDumpState(t *testing.T) {
	dp := control.NewDebugProbes()
	dp.RegisterProbe("rowring", func() api.RingState {
		return api.RingState{Rows: 10, Columns: 10, ProdLoc: 3}
	})

	state := dp.DumpState()
	probe, ok := state["rowring"]
	if !ok {
		t.Fatalf("probe output missing: %+v", state)
	}
	if probe.Rows != 10 || probe.ProdLoc != 3 {
		t.Errorf("unexpected probe output: %+v", probe)
	}

	// Re-registration under the same name replaces the probe.
	dp.RegisterProbe("rowring", func() api.RingState {
		return api.RingState{Rows: 1}
	})
	if got := dp.DumpState()["rowring"].Rows; got != 1 {
		t.Errorf("probe not replaced: rows %d", got)
	}
}

func TestStopwatchRecordsInterval(t *testing.T) {
	sw := control.NewStopwatch()
	time.Sleep(5 * time.Millisecond)
	sw.Stop()

	got := sw.Elapsed()
	if got < 5*time.Millisecond {
		t.Errorf("elapsed %v, expected at least 5ms", got)
	}
	frozen := sw.Elapsed()
	time.Sleep(2 * time.Millisecond)
	if sw.Elapsed() != frozen {
		t.Error("elapsed changed after Stop")
	}
}
