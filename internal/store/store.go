// Package store persists estimation runs and the benchmark knowledge base.
package store

import (
	"context"

	"github.com/sells-group/comp-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// BenchmarkQuery selects benchmark candidates for a profile. Years below
// zero means experience is unknown and the window filter is skipped.
type BenchmarkQuery struct {
	Years float64
	// Slack widens the experience window on both sides, so near-misses
	// still surface.
	Slack float64
	Limit int
}

// Store defines the persistence interface for the estimation pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, profileText string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.EstimationResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Benchmarks
	AddBenchmarks(ctx context.Context, benchmarks []model.Benchmark) (int, error)
	MatchBenchmarks(ctx context.Context, q BenchmarkQuery) ([]model.Benchmark, error)
	CountBenchmarks(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
