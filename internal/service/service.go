package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"gridbridge/internal/codec"
	"gridbridge/internal/domain"
	"gridbridge/internal/repository"
	"gridbridge/internal/schema"
	"gridbridge/internal/translate"
)

// DefaultMaxConcurrent bounds how many optimization requests are in
// flight at once across OptimizeAll.
const DefaultMaxConcurrent = 3

// Optimizer sends a grid layout request to a network planner and blocks
// until the planner produces a result or fails.
type Optimizer interface {
	Optimize(ctx context.Context, input *codec.GridInput) (*codec.GridResult, error)
}

// Planner coordinates the full optimization pipeline: validate and
// decode a settlement export, build the planner request, persist the
// run, and merge the planner's layout back into the grid.
type Planner struct {
	store         repository.RunStore
	optimizer     Optimizer
	maxConcurrent int
}

// New creates a planner service. maxConcurrent <= 0 selects
// DefaultMaxConcurrent.
func New(store repository.RunStore, optimizer Optimizer, maxConcurrent int) *Planner {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Planner{
		store:         store,
		optimizer:     optimizer,
		maxConcurrent: maxConcurrent,
	}
}

// Request is one cluster to optimize: the raw settlement export plus
// the design and demand parameters for the planner.
type Request struct {
	Cluster      string
	Exploration  []byte
	Design       domain.GridDesign
	YearlyDemand float64
}

// Outcome is the merged result of a successful run.
type Outcome struct {
	Run     *repository.Run
	Grid    *domain.Grid
	Summary *translate.Summary
}

// Optimize runs the pipeline for a single cluster. A run record is
// persisted before the planner is contacted and updated to DONE or
// ERROR when the outcome is known; the returned error describes the
// first stage that failed.
func (p *Planner) Optimize(ctx context.Context, req Request) (*Outcome, error) {
	if err := schema.ValidateExploration(req.Exploration); err != nil {
		return nil, fmt.Errorf("exploration for %s: %w", req.Cluster, err)
	}

	grid, err := codec.DecodeExploration(bytes.NewReader(req.Exploration))
	if err != nil {
		return nil, fmt.Errorf("decode exploration for %s: %w", req.Cluster, err)
	}

	input, err := translate.BuildRequest(grid, &req.Design, req.YearlyDemand)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", req.Cluster, err)
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal request for %s: %w", req.Cluster, err)
	}

	run := repository.NewRun(req.Cluster, payload)
	if err := p.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("persist run for %s: %w", req.Cluster, err)
	}
	log.Printf("run %s: cluster %s submitted (%d nodes)", run.ID, req.Cluster, grid.NodeCount())

	result, err := p.optimizer.Optimize(ctx, input)
	if err != nil {
		p.finishRun(ctx, run, repository.RunError, nil, err.Error())
		return nil, fmt.Errorf("optimize %s: %w", req.Cluster, err)
	}

	merged, err := translate.Merge(grid, result)
	if err != nil {
		p.finishRun(ctx, run, repository.RunError, nil, err.Error())
		return nil, fmt.Errorf("merge result for %s: %w", req.Cluster, err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result for %s: %w", req.Cluster, err)
	}
	p.finishRun(ctx, run, repository.RunDone, raw, "")

	summary := translate.Summarize(merged, &req.Design)
	log.Printf("run %s: cluster %s done (%d nodes, %d links, grid cost %.2f)",
		run.ID, req.Cluster, merged.NodeCount(), merged.LinkCount(), summary.CostGrid)

	return &Outcome{Run: run, Grid: merged, Summary: summary}, nil
}

// OptimizeAll runs every request with bounded concurrency. The first
// failure cancels the remaining runs; outcomes keep the input order,
// with nil entries for requests that did not complete.
func (p *Planner) OptimizeAll(ctx context.Context, reqs []Request) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i, req := range reqs {
		g.Go(func() error {
			out, err := p.Optimize(ctx, req)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// Run retrieves a stored run record.
func (p *Planner) Run(ctx context.Context, id string) (*repository.Run, error) {
	return p.store.GetRun(ctx, id)
}

// Runs lists stored run records for a cluster; empty cluster lists all.
func (p *Planner) Runs(ctx context.Context, cluster string) ([]*repository.Run, error) {
	return p.store.ListRuns(ctx, cluster)
}

// finishRun records the terminal state of a run. Persistence failures
// here are logged, not returned: the optimization outcome already
// exists and losing the audit row should not mask it.
func (p *Planner) finishRun(ctx context.Context, run *repository.Run, status repository.RunStatus, result []byte, errText string) {
	run.Status = status
	run.Result = result
	run.Error = errText
	if err := p.store.UpdateRun(ctx, run); err != nil {
		log.Printf("run %s: failed to record %s state: %v", run.ID, status, err)
	}
}
