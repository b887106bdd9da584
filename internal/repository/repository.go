package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RunStatus mirrors the optimizer's own lifecycle vocabulary so that a
// persisted run can be compared directly against what the remote service
// reports.
type RunStatus string

const (
	RunPending RunStatus = "PENDING"
	RunDone    RunStatus = "DONE"
	RunError   RunStatus = "ERROR"
)

// Valid reports whether s is one of the known run statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case RunPending, RunDone, RunError:
		return true
	}
	return false
}

// ErrNotFound is returned when a run ID has no stored record.
var ErrNotFound = errors.New("run not found")

// Run is one optimization attempt for a cluster: the request that was
// sent, the raw result (once available), and the terminal error text if
// the run failed.
type Run struct {
	ID        string          `json:"id"`
	Cluster   string          `json:"cluster"`
	Status    RunStatus       `json:"status"`
	Request   json.RawMessage `json:"request,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewRun creates a pending run for a cluster with a fresh ID.
func NewRun(cluster string, request json.RawMessage) *Run {
	return &Run{
		ID:      uuid.NewString(),
		Cluster: cluster,
		Status:  RunPending,
		Request: request,
	}
}

// RunStore defines persistence for optimization runs.
type RunStore interface {
	// CreateRun stores a new run record. The run's CreatedAt and
	// UpdatedAt are set by the store.
	CreateRun(ctx context.Context, run *Run) error

	// UpdateRun replaces the status, result, and error of an existing
	// run and bumps UpdatedAt. Returns ErrNotFound for unknown IDs.
	UpdateRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run by ID. Returns ErrNotFound for unknown IDs.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns all runs for a cluster, newest first. An empty
	// cluster lists every run.
	ListRuns(ctx context.Context, cluster string) ([]*Run, error)

	// Close releases resources.
	Close() error
}
