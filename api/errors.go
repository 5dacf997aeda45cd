// Package api
// Author: momentics <momentics@gmail.com>
//
// Error vocabulary. A rejected geometry is the only failure the buffer
// reports through an error value: shutdown is the ok=false claim
// sentinel, and verifier violations are fatal diagnostics, not errors.

package api

import (
	"errors"
	"fmt"
)

// ErrBadGeometry matches any Reconfigure rejection via errors.Is.
var ErrBadGeometry = errors.New("rows x columns != buffer capacity")

// GeometryError carries the rejected shape alongside the capacity it
// failed to multiply out to.
type GeometryError struct {
	Rows     uint64
	Columns  uint64
	Capacity uint64
}

// Error renders the shape and capacity of the rejected reconfiguration.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %dx%d over capacity %d", ErrBadGeometry, e.Rows, e.Columns, e.Capacity)
}

// Unwrap ties the error to ErrBadGeometry for errors.Is.
func (e *GeometryError) Unwrap() error { return ErrBadGeometry }
