// Package service implements the optimization pipeline for gridbridge.
//
// This package coordinates between the codec, translate, and adapter
// layers: a settlement export is validated and decoded into a grid,
// turned into a planner request, sent to the remote optimizer, and the
// optimized layout is merged back and summarized.
//
// # Run Bookkeeping
//
// Every optimization attempt is persisted as a run via the repository
// layer before the planner is contacted, and moved to its terminal
// DONE or ERROR state once the outcome is known. A store failure while
// recording the terminal state is logged rather than returned, so the
// audit trail never masks a real result.
//
// # Concurrency
//
// OptimizeAll fans requests out with a bounded worker pool; the bound
// matches the slot count of the remote planner so requests queue here
// instead of timing out there.
package service
