// Package domain defines the core types of the settlement electrification
// graph.
//
// # Core Types
//
// Position is the single typed latitude/longitude value used in-process.
// The external schemas disagree on coordinate encoding (numeric-encoded
// strings in the exploration shape, plain numbers in the optimizer's grid
// input); those encodings live in the codec package, never here.
//
// Node represents a point in the graph: a consumer building, a candidate
// pole, or the power house. Link represents a cable segment between two
// positions, keyed by coordinate pair rather than node identity.
//
// Grid owns the node and link collections and answers graph queries:
// coordinate lookup through a fixed rounding tolerance, links touching a
// point, and reachability from a node to any power source.
//
// GridDesign carries the per-request cost and lifetime parameters for each
// asset class (cables, poles, microgrid connection, optional standalone
// solar fallback).
//
// # Identity
//
// Two positions closer than the coordinate tolerance (CoordPrecision
// decimal places) are the same point. The optimizer does not echo internal
// node identities, so merge matching is coordinate-based; PositionKey makes
// that equivalence relation explicit.
package domain
