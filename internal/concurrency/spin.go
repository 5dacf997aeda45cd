// File: internal/concurrency/spin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Claim-loop yield. The ring never parks on a condition variable; a
// worker that loses a CAS sleeps for about a microsecond and retries.
// The jitter spreads contending workers off a common wakeup beat.

package concurrency

import (
	"time"

	"github.com/valyala/fastrand"
)

// claimYield is the base back-off between CAS attempts.
const claimYield = time.Microsecond

// claimWait yields for claimYield plus up to one microsecond of jitter.
func claimWait() {
	time.Sleep(claimYield + time.Duration(fastrand.Uint32n(1024))*time.Nanosecond)
}
