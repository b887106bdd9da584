// Package repository defines the data access interfaces for gridbridge.
//
// This package provides the repository abstraction for persisting
// optimization runs: the request payload sent to the network planner,
// its raw result, and the lifecycle status in between. The actual
// implementation is in the sqlite subpackage.
//
// # Run Records
//
// A Run keeps the optimizer's own PENDING/DONE/ERROR vocabulary so a
// stored record can be reconciled against the remote service without
// translation. Request and result payloads are stored as raw JSON;
// the repository never interprets them.
//
// # SQLite Implementation
//
// The sqlite implementation provides a complete store using a pure-Go
// SQLite driver, so no cgo toolchain is needed. The schema is migrated
// automatically on startup.
package repository
