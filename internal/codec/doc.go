// Package codec converts between the domain grid and the two external JSON
// wire shapes: the application's exploration representation and the
// optimizer's grid_design contract.
//
// The two schemas encode coordinates differently (numeric-encoded strings
// in the exploration and grid-result shapes, plain numbers in the grid
// input) and both use a parallel-array layout, one array per attribute,
// indexed together. All of that stays here: the domain only ever sees
// typed Positions and structured Node/Link records.
//
// Node identity on the wire is the implicit array index; the parent
// attribute refers to that index, with "unknown" as the no-parent
// sentinel. Decoding resolves indices to node identities in a second pass,
// encoding maps identities back to indices.
package codec
