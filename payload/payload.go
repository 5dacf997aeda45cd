// File: payload/payload.go
// Package payload provides the concrete message values carried by the ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A value is constructed from the monotonic absolute index of the element
// position it is produced at, and must report that index back through
// api.Value. Two realizations are provided: a numeric identity mapping
// and a decimal-text mapping. Both round-trip index == New*(i).Index().

package payload

import (
	"strconv"

	"github.com/momentics/hioload-mq/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Value = Number(0)
	_ api.Value = Text("0")
)

// Generator builds the value for a given absolute element index. The
// index stamps the value so the verifier can recover it.
type Generator[V api.Value] func(index int64) V

// Number is the numeric identity payload: the value is its own index.
type Number int64

// NewNumber builds the Number for an absolute index.
func NewNumber(index int64) Number { return Number(index) }

// Index returns the absolute index view of the value.
func (n Number) Index() int64 { return int64(n) }

// Text is the decimal-text payload: "255903" stands for index 255903.
type Text string

// NewText builds the Text for an absolute index.
func NewText(index int64) Text { return Text(strconv.FormatInt(index, 10)) }

// Index parses the decimal representation back into the absolute index.
// Malformed text reports -1, which never matches a valid position.
func (t Text) Index() int64 {
	v, err := strconv.ParseInt(string(t), 10, 64)
	if err != nil {
		return -1
	}
	return v
}
