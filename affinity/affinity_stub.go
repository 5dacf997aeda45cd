//go:build !linux
// +build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for platforms without an affinity binding.

package affinity

import "fmt"

// setAffinityPlatform reports affinity as unsupported.
func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: not supported on this platform")
}
