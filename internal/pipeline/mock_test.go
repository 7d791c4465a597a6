package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/internal/profile"
	"github.com/sells-group/comp-cli/internal/provider"
	"github.com/sells-group/comp-cli/internal/store"
)

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, profileText string) (model.Profile, error) {
	args := m.Called(ctx, profileText)
	return args.Get(0).(model.Profile), args.Error(1)
}

// --- Query Generator Mock ---

type mockQueryGenerator struct {
	mock.Mock
}

func (m *mockQueryGenerator) Generate(ctx context.Context, p model.Profile) []string {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// --- Observation Provider Mock ---

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockProvider) Observations(ctx context.Context, req provider.Request) ([]model.Observation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Observation), args.Error(1)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context, profileText string) (*model.Run, error) {
	args := m.Called(ctx, profileText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	args := m.Called(ctx, runID, status)
	return args.Error(0)
}

func (m *mockStore) UpdateRunResult(ctx context.Context, runID string, result *model.EstimationResult) error {
	args := m.Called(ctx, runID, result)
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) AddBenchmarks(ctx context.Context, benchmarks []model.Benchmark) (int, error) {
	args := m.Called(ctx, benchmarks)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) MatchBenchmarks(ctx context.Context, q store.BenchmarkQuery) ([]model.Benchmark, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Benchmark), args.Error(1)
}

func (m *mockStore) CountBenchmarks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Ensure interface compliance ---
var (
	_ profile.Extractor            = (*mockExtractor)(nil)
	_ profile.QueryGenerator       = (*mockQueryGenerator)(nil)
	_ provider.ObservationProvider = (*mockProvider)(nil)
	_ store.Store                  = (*mockStore)(nil)
)
