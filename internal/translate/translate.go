// Package translate maps between the domain grid and the optimizer's
// grid_design wire shape, in both directions: projecting an exploration
// grid into an optimization request and merging an optimizer result back
// into the owning grid.
//
// Translation never guesses. Anything that cannot be mapped losslessly,
// a node the request shape cannot carry, two result rows resolving to the
// same coordinate, is an Error naming the offending entity, not a repair.
package translate

import "fmt"

// Error reports a cross-schema mapping that cannot produce a consistent
// result. Entity and Index name the first offending node or link.
type Error struct {
	Entity string // "node" or "link"
	Index  int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate: %s %d: %s", e.Entity, e.Index, e.Reason)
}

func translateErrorf(entity string, index int, format string, args ...any) *Error {
	return &Error{Entity: entity, Index: index, Reason: fmt.Sprintf(format, args...)}
}
