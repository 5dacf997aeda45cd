// File: cmd/mqbench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// mqbench sweeps row geometries of the row-granular MPMC ring and prints
// the per-message cost for each row width.
//
// Usage: mqbench <num producers> <num consumers>
// Both default to 2 when omitted. Exits non-zero on a verifier failure.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/momentics/hioload-mq/bench"
	"github.com/momentics/hioload-mq/internal/concurrency"
	"github.com/momentics/hioload-mq/payload"
	"github.com/momentics/hioload-mq/workers"
)

func main() {
	cfg := bench.DefaultConfig()
	if len(os.Args) == 3 {
		numProd, err1 := strconv.Atoi(os.Args[1])
		numCons, err2 := strconv.Atoi(os.Args[2])
		if err1 != nil || err2 != nil || numProd < 0 || numCons < 0 {
			fmt.Fprintf(os.Stderr, "Usage: mqbench <num prod> <num cons>\n")
			os.Exit(2)
		}
		cfg.Producers = numProd
		cfg.Consumers = numCons
	} else {
		fmt.Println("Usage: mqbench <num prod> <num cons>")
		fmt.Printf("Taking defaults: mqbench %d %d\n", cfg.Producers, cfg.Consumers)
	}

	ring := concurrency.NewRowRing[payload.Number](cfg.Capacity)

	var drv *bench.Driver[payload.Number]
	cfg.OnViolation = func(v workers.Violation) {
		fmt.Println(v.String())
		if drv != nil {
			for name, state := range drv.Probes().DumpState() {
				fmt.Printf("%s: %+v\n", name, state)
			}
		}
		os.Exit(1)
	}
	drv = bench.NewDriver[payload.Number](ring, payload.NewNumber, cfg)

	if _, err := drv.Sweep(); err != nil {
		fmt.Fprintf(os.Stderr, "mqbench: %v\n", err)
		os.Exit(1)
	}
}
