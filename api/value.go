// Package api
// Author: momentics
//
// Payload value contract used by the consumer-side verifier.

package api

// Value is an element that can report the absolute index it was built for.
//
// A value produced at absolute position x must report Index() == x; the
// verifier relies on this to detect slot mis-identification. Concrete
// realizations live in the payload package.
type Value interface {
	// Index returns the absolute index view of the value.
	Index() int64
}
