// File: bench/geometry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import "github.com/eapache/queue"

// Geometry is one rows*columns split of the fixed buffer capacity.
type Geometry struct {
	Rows    uint64
	Columns uint64
}

// Plan enumerates the row-width sweep for the given capacity as a FIFO of
// geometries: widths 1, 5, 10, 50, 100, 500, … up to the capacity itself,
// each decade accompanied by its half step. Widths that do not divide the
// capacity are skipped.
func Plan(capacity uint64) *queue.Queue {
	plan := queue.New()
	add := func(columns uint64) {
		if columns > 0 && capacity%columns == 0 {
			plan.Add(Geometry{Rows: capacity / columns, Columns: columns})
		}
	}
	for c := uint64(1); c <= capacity; c *= 10 {
		if c >= 10 {
			add(c / 2)
		}
		add(c)
	}
	return plan
}
