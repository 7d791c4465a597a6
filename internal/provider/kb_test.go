package provider

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/internal/store"
)

type fakeBenchmarkStore struct {
	store.Store // panics on anything not overridden

	benchmarks []model.Benchmark
	err        error
	lastQuery  store.BenchmarkQuery
}

func (f *fakeBenchmarkStore) MatchBenchmarks(ctx context.Context, q store.BenchmarkQuery) ([]model.Benchmark, error) {
	f.lastQuery = q
	return f.benchmarks, f.err
}

func benchmark(role, location, tier string, lo, hi float64) model.Benchmark {
	return model.Benchmark{
		Role:         role,
		Location:     location,
		CompanyTier:  tier,
		YearsMin:     5,
		YearsMax:     8,
		SalaryMin:    lo,
		SalaryMax:    hi,
		SalaryMedian: (lo + hi) / 2,
		Currency:     "USD",
		Year:         2025,
	}
}

func TestKnowledgeObservations(t *testing.T) {
	st := &fakeBenchmarkStore{benchmarks: []model.Benchmark{
		benchmark("Software Engineer", "San Francisco, CA", model.TierFAANG, 180_000, 260_000),
		benchmark("Product Manager", "San Francisco, CA", model.TierFAANG, 170_000, 240_000),
	}}

	p := NewKnowledgeProvider(st)
	obs, err := p.Observations(context.Background(), Request{Profile: model.Profile{
		Title:             "Software Engineer",
		CompanyTier:       model.TierFAANG,
		YearsOfExperience: 6,
		Location:          "San Francisco Bay Area",
	}})
	require.NoError(t, err)

	// The PM row shares no title tokens and is dropped.
	require.Len(t, obs, 1)
	assert.Equal(t, model.SourceInternalKB, obs[0].Source)
	assert.Equal(t, 180_000.0, obs[0].Low)
	assert.Equal(t, 260_000.0, obs[0].High)
	assert.Equal(t, "USD", obs[0].Currency)
	// Full title match + location + tier: 0.6 + 0.25 + 0.15 = 1.0,
	// so the weight hint hits its 0.95 ceiling.
	assert.InDelta(t, 0.95, obs[0].WeightHint, 0.001)
	assert.Contains(t, obs[0].RawText, "Software Engineer")

	// Experience window is forwarded with slack.
	assert.Equal(t, 6.0, st.lastQuery.Years)
	assert.Equal(t, yearsSlack, st.lastQuery.Slack)
}

func TestKnowledgeObservations_UnknownExperience(t *testing.T) {
	st := &fakeBenchmarkStore{}

	p := NewKnowledgeProvider(st)
	_, err := p.Observations(context.Background(), Request{Profile: model.Profile{
		Title:             "Software Engineer",
		YearsOfExperience: model.UnknownYears,
	}})
	require.NoError(t, err)

	assert.Equal(t, float64(model.UnknownYears), st.lastQuery.Years)
}

func TestKnowledgeObservations_StoreError(t *testing.T) {
	st := &fakeBenchmarkStore{err: eris.New("database locked")}

	p := NewKnowledgeProvider(st)
	_, err := p.Observations(context.Background(), Request{Profile: model.Profile{Title: "Engineer"}})
	require.Error(t, err)
}

func TestKnowledgeObservations_CapsMatches(t *testing.T) {
	var rows []model.Benchmark
	for i := 0; i < 10; i++ {
		rows = append(rows, benchmark("Software Engineer", "Denver, CO", model.TierTwo, 120_000+float64(i*1000), 160_000))
	}
	st := &fakeBenchmarkStore{benchmarks: rows}

	p := NewKnowledgeProvider(st)
	obs, err := p.Observations(context.Background(), Request{Profile: model.Profile{Title: "Software Engineer"}})
	require.NoError(t, err)
	assert.Len(t, obs, maxKBMatches)
}

func TestRankBenchmarks_Ordering(t *testing.T) {
	p := model.Profile{
		Title:       "Senior Software Engineer",
		CompanyTier: model.TierOne,
		Location:    "Seattle, WA",
	}

	// Partial title match, full match, full match without tier, and one row
	// with no title overlap at all.
	candidates := []model.Benchmark{
		benchmark("Software Engineer", "Austin, TX", model.TierTwo, 1, 2),
		benchmark("Senior Software Engineer", "Seattle, WA", model.TierOne, 3, 4),
		benchmark("Senior Software Engineer", "Seattle, WA", model.TierTwo, 5, 6),
		benchmark("Data Analyst", "Seattle, WA", model.TierOne, 7, 8),
	}

	ranked := rankBenchmarks(candidates, p)
	require.Len(t, ranked, 3)

	assert.Equal(t, 3.0, ranked[0].benchmark.SalaryMin)
	assert.Equal(t, 5.0, ranked[1].benchmark.SalaryMin)
	assert.Equal(t, 1.0, ranked[2].benchmark.SalaryMin)
	assert.Greater(t, ranked[0].score, ranked[1].score)
}

func TestTokenOverlap(t *testing.T) {
	assert.Equal(t, 1.0, tokenOverlap([]string{"software", "engineer"}, []string{"software", "engineer", "senior"}))
	assert.Equal(t, 0.5, tokenOverlap([]string{"software", "engineer"}, []string{"engineer"}))
	assert.Equal(t, 0.0, tokenOverlap(nil, []string{"engineer"}))
}

func TestLocationMatches(t *testing.T) {
	assert.True(t, locationMatches("San Francisco Bay Area", "San Francisco, CA"))
	assert.True(t, locationMatches("Seattle", "Seattle, WA"))
	assert.False(t, locationMatches("Denver, CO", "Austin, TX"))
}
