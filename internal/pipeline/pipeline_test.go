package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
)

func testProfile() model.Profile {
	return model.Profile{
		Title:             "Software Engineer",
		Company:           "Acme",
		CompanyTier:       model.TierUnknown,
		YearsOfExperience: 4,
		Location:          "Denver, CO",
	}
}

func searchObservations() []model.Observation {
	return []model.Observation{
		{Low: 110_000, High: 150_000, Currency: "USD", Source: "levels.fyi", WeightHint: 0.7},
		{Low: 120_000, High: 160_000, Currency: "USD", Source: "glassdoor.com", WeightHint: 0.6},
	}
}

func kbObservations() []model.Observation {
	return []model.Observation{
		{Low: 115_000, High: 155_000, Currency: "USD", Source: model.SourceInternalKB, WeightHint: 0.85},
	}
}

func newMockQueryGen() *mockQueryGenerator {
	gen := &mockQueryGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return([]string{"software engineer salary 2026"}).Maybe()
	return gen
}

// newFixedProvider answers every Observations call with the given slice,
// or fails every call when err is set. Name is used only in warn logs.
func newFixedProvider(name string, obs []model.Observation, err error) *mockProvider {
	p := &mockProvider{}
	p.On("Name").Return(name).Maybe()
	if err != nil {
		p.On("Observations", mock.Anything, mock.AnythingOfType("provider.Request")).Return(nil, err)
	} else {
		p.On("Observations", mock.Anything, mock.AnythingOfType("provider.Request")).Return(obs, nil)
	}
	return p
}

func newTestPipeline(st *mockStore, ext *mockExtractor, search, kb *mockProvider) *Pipeline {
	if st == nil {
		return New(config.DefaultEstimator(), nil, ext, newMockQueryGen(), search, kb)
	}
	return New(config.DefaultEstimator(), st, ext, newMockQueryGen(), search, kb)
}

func TestRun_MergesBothBranches(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, "SWE at Acme, 4 years, Denver").Return(testProfile(), nil)
	search := newFixedProvider("search", searchObservations(), nil)
	kb := newFixedProvider("knowledge_base", kbObservations(), nil)

	p := newTestPipeline(nil, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme, 4 years, Denver")
	require.NoError(t, err)

	search.AssertNumberOfCalls(t, "Observations", 1)
	kb.AssertNumberOfCalls(t, "Observations", 1)
	assert.Equal(t, 3, result.Confidence.DataPoints)
	assert.ElementsMatch(t, []string{"levels.fyi", "glassdoor.com", model.SourceInternalKB}, result.Sources)
	assert.Equal(t, "Software Engineer", result.ProfileSummary.Title)
}

func TestRun_ExtractionFailureAbortsBeforeProviders(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, "lorem ipsum").Return(model.Profile{}, eris.New("no discernible job profile"))
	search := &mockProvider{}
	kb := &mockProvider{}

	st := &mockStore{}
	st.On("CreateRun", mock.Anything, "lorem ipsum").
		Return(&model.Run{ID: "run-1", Profile: "lorem ipsum", Status: model.RunStatusQueued}, nil)
	st.On("UpdateRunStatus", mock.Anything, "run-1", mock.AnythingOfType("model.RunStatus")).Return(nil)

	p := newTestPipeline(st, ext, search, kb)
	result, err := p.Run(context.Background(), "lorem ipsum")

	require.Error(t, err)
	assert.Nil(t, result)
	search.AssertNotCalled(t, "Observations", mock.Anything, mock.Anything)
	kb.AssertNotCalled(t, "Observations", mock.Anything, mock.Anything)

	// The run record is marked failed and no result is written.
	st.AssertCalled(t, "UpdateRunStatus", mock.Anything, "run-1", model.RunStatusFailed)
	st.AssertNotCalled(t, "UpdateRunResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_OneBranchFailsDegrades(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, mock.AnythingOfType("string")).Return(testProfile(), nil)
	search := newFixedProvider("search", nil, eris.New("network down"))
	kb := newFixedProvider("knowledge_base", kbObservations(), nil)

	p := newTestPipeline(nil, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Confidence.DataPoints)
	assert.Equal(t, []string{model.SourceInternalKB}, result.Sources)
	assert.False(t, result.SalaryEstimate.Empty())
}

func TestRun_BothBranchesEmpty(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, mock.AnythingOfType("string")).Return(testProfile(), nil)
	search := newFixedProvider("search", nil, nil)
	kb := newFixedProvider("knowledge_base", nil, nil)

	p := newTestPipeline(nil, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme")
	require.NoError(t, err)

	assert.True(t, result.SalaryEstimate.Empty())
	assert.Equal(t, 0.0, result.Confidence.Score)
	assert.Equal(t, model.LevelLow, result.Confidence.Level)
	assert.Equal(t, 0, result.Confidence.DataPoints)
	assert.Contains(t, result.Confidence.Factors, "no usable salary data found")
}

func TestRun_RecordsLifecycle(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, "SWE at Acme, 4 years, Denver").Return(testProfile(), nil)
	search := newFixedProvider("search", searchObservations(), nil)
	kb := newFixedProvider("knowledge_base", kbObservations(), nil)

	st := &mockStore{}
	st.On("CreateRun", mock.Anything, "SWE at Acme, 4 years, Denver").
		Return(&model.Run{ID: "run-1", Profile: "SWE at Acme, 4 years, Denver", Status: model.RunStatusQueued}, nil)
	st.On("UpdateRunStatus", mock.Anything, "run-1", model.RunStatusRunning).Return(nil)
	st.On("UpdateRunResult", mock.Anything, "run-1", mock.AnythingOfType("*model.EstimationResult")).Return(nil)

	p := newTestPipeline(st, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme, 4 years, Denver")
	require.NoError(t, err)

	st.AssertExpectations(t)
	st.AssertCalled(t, "UpdateRunResult", mock.Anything, "run-1", result)
}

func TestRun_StoreFailureDoesNotBlockRun(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, mock.AnythingOfType("string")).Return(testProfile(), nil)
	search := newFixedProvider("search", searchObservations(), nil)
	kb := newFixedProvider("knowledge_base", kbObservations(), nil)

	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.AnythingOfType("string")).Return(nil, eris.New("database locked"))

	p := newTestPipeline(st, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme")
	require.NoError(t, err)
	assert.NotNil(t, result)
	st.AssertNotCalled(t, "UpdateRunStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_NilStore(t *testing.T) {
	ext := &mockExtractor{}
	ext.On("Extract", mock.Anything, mock.AnythingOfType("string")).Return(testProfile(), nil)
	search := newFixedProvider("search", searchObservations(), nil)
	kb := newFixedProvider("knowledge_base", nil, nil)

	p := newTestPipeline(nil, ext, search, kb)
	result, err := p.Run(context.Background(), "SWE at Acme")
	require.NoError(t, err)
	assert.NotNil(t, result)
}
