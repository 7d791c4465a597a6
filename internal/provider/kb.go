package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/internal/store"
)

// yearsSlack widens the benchmark experience window on both sides, so a
// 9-year engineer still matches a 5-8 year bracket.
const yearsSlack = 2.0

// maxKBMatches caps how many benchmark rows become observations.
const maxKBMatches = 5

// KnowledgeProvider fetches observations from the internal benchmark store.
// It is a structured lookup by profile facts, not a text search.
type KnowledgeProvider struct {
	store store.Store
}

// NewKnowledgeProvider creates a knowledge-store-backed observation provider.
func NewKnowledgeProvider(st store.Store) *KnowledgeProvider {
	return &KnowledgeProvider{store: st}
}

func (p *KnowledgeProvider) Name() string { return "knowledge_base" }

// Observations matches benchmark rows against the profile and converts the
// best matches to observations with source internal_kb.
func (p *KnowledgeProvider) Observations(ctx context.Context, req Request) ([]model.Observation, error) {
	years := req.Profile.YearsOfExperience
	if !req.Profile.HasExperience() {
		years = model.UnknownYears
	}

	candidates, err := p.store.MatchBenchmarks(ctx, store.BenchmarkQuery{
		Years: years,
		Slack: yearsSlack,
	})
	if err != nil {
		return nil, err
	}

	ranked := rankBenchmarks(candidates, req.Profile)
	if len(ranked) > maxKBMatches {
		ranked = ranked[:maxKBMatches]
	}

	obs := make([]model.Observation, 0, len(ranked))
	for _, rb := range ranked {
		b := rb.benchmark
		obs = append(obs, model.Observation{
			Low:        b.SalaryMin,
			High:       b.SalaryMax,
			Currency:   b.Currency,
			Source:     model.SourceInternalKB,
			WeightHint: 0.7 + 0.25*rb.score,
			RawText: fmt.Sprintf("%s (%s) in %s: $%.0f-$%.0f, median $%.0f, %.0f-%.0f yoe",
				b.Role, b.CompanyTier, b.Location, b.SalaryMin, b.SalaryMax, b.SalaryMedian, b.YearsMin, b.YearsMax),
		})
	}

	zap.L().Debug("kb: matched benchmarks",
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(obs)),
	)
	return obs, nil
}

type rankedBenchmark struct {
	benchmark model.Benchmark
	score     float64
}

// rankBenchmarks orders candidates by how well role, location, and company
// tier line up with the profile. Rows whose role shares no tokens with the
// profile title are dropped.
func rankBenchmarks(candidates []model.Benchmark, p model.Profile) []rankedBenchmark {
	titleTokens := tokens(p.Title)

	var ranked []rankedBenchmark
	for _, b := range candidates {
		overlap := tokenOverlap(titleTokens, tokens(b.Role))
		if overlap == 0 {
			continue
		}

		score := 0.6 * overlap
		if p.Location != "" && locationMatches(p.Location, b.Location) {
			score += 0.25
		}
		if p.CompanyTier != model.TierUnknown && p.CompanyTier == b.CompanyTier {
			score += 0.15
		}
		ranked = append(ranked, rankedBenchmark{benchmark: b, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ",.()")
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// tokenOverlap returns the fraction of a's tokens present in b.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	matched := 0
	for _, t := range a {
		if set[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(a))
}

func locationMatches(profileLoc, benchLoc string) bool {
	pl := strings.ToLower(profileLoc)
	bl := strings.ToLower(benchLoc)
	return strings.Contains(pl, bl) || strings.Contains(bl, pl) ||
		tokenOverlap(tokens(profileLoc), tokens(benchLoc)) >= 0.5
}
