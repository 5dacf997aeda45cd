// control/stopwatch.go
// Author: momentics <momentics@gmail.com>
//
// Scoped wall-clock interval measurement for workers and the driver.

package control

import "time"

// Stopwatch measures a wall-clock interval. Start it when a scope is
// entered and defer Stop so the elapsed time is recorded on every exit
// path.
type Stopwatch struct {
	start   time.Time
	elapsed time.Duration
}

// NewStopwatch returns a running stopwatch.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Stop freezes the elapsed interval. Subsequent calls overwrite it.
func (s *Stopwatch) Stop() {
	s.elapsed = time.Since(s.start)
}

// Elapsed returns the frozen interval, or the running interval when the
// stopwatch has not been stopped yet.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.elapsed != 0 {
		return s.elapsed
	}
	return time.Since(s.start)
}
