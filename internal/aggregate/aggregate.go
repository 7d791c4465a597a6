// Package aggregate merges noisy salary observations into a single ranked,
// confidence-scored estimate. Aggregation is a pure function of its inputs:
// identical observations and profile always yield identical output,
// regardless of input order.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
)

// Output is everything the aggregator derives from an observation set.
type Output struct {
	Estimate    model.SalaryRange
	Confidence  model.Confidence
	Adjustments []string
	Sources     []string // distinct, first-seen across accepted observations
	Reasoning   string
}

// Aggregator combines observations deterministically. All thresholds come
// from configuration; the zero value is not usable, construct with New.
type Aggregator struct {
	cfg config.EstimatorConfig
}

// New creates an aggregator with the given thresholds.
func New(cfg config.EstimatorConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate runs the full combination procedure: sanitize, deduplicate,
// reject outliers, compute a weighted range, apply profile adjustments, and
// score confidence. An empty accepted set is a valid outcome, reported with
// a zero estimate and zero confidence rather than an error.
func (a *Aggregator) Aggregate(observations []model.Observation, p model.Profile) Output {
	var factors []string

	accepted, dropped := a.sanitize(observations)
	if dropped > 0 {
		factors = append(factors, fmt.Sprintf("dropped %d observation(s) with out-of-range or non-%s amounts", dropped, a.cfg.Currency))
	}

	// Canonical order makes every later step independent of input order.
	sortCanonical(accepted)

	accepted, collapsed := a.dedupe(accepted)
	if collapsed > 0 {
		factors = append(factors, fmt.Sprintf("collapsed %d near-duplicate observation(s)", collapsed))
	}

	if len(accepted) >= a.cfg.MinForOutlier {
		var rejected int
		accepted, rejected = a.rejectOutliers(accepted)
		if rejected > 0 {
			factors = append(factors, fmt.Sprintf("rejected %d outlier(s) by median absolute deviation", rejected))
		}
	} else if len(accepted) > 0 {
		factors = append(factors, fmt.Sprintf("sample too small for outlier rejection (%d observation(s))", len(accepted)))
	}

	if len(accepted) == 0 {
		return Output{
			Estimate: model.SalaryRange{Currency: a.cfg.Currency},
			Confidence: model.Confidence{
				Score:      0,
				Level:      model.LevelLow,
				DataPoints: 0,
				Factors:    append(factors, "no usable salary data found"),
			},
			Reasoning: noDataReasoning,
		}
	}

	estimate := a.computeRange(accepted)
	spread := relativeSpread(estimate)

	estimate, adjustments := a.applyAdjustments(estimate, p)
	factors = append(factors, adjustments...)

	sources := distinctSources(accepted)
	conf := a.scoreConfidence(len(accepted), len(sources), spread)
	conf.Factors = factors

	return Output{
		Estimate:    estimate,
		Confidence:  conf,
		Adjustments: adjustments,
		Sources:     sources,
		Reasoning:   a.reasoning(estimate, len(accepted), sources, adjustments),
	}
}

// Assemble packages aggregator output and the profile into the final
// result record. Every confidence factor is carried through untouched.
func Assemble(p model.Profile, out Output) *model.EstimationResult {
	return &model.EstimationResult{
		ProfileSummary: p.Summary(),
		SalaryEstimate: out.Estimate,
		Confidence:     out.Confidence,
		Reasoning:      out.Reasoning,
		Sources:        out.Sources,
		Adjustments:    out.Adjustments,
	}
}

// sanitize drops malformed observations: non-positive or absurd amounts and
// currencies other than the configured one.
func (a *Aggregator) sanitize(observations []model.Observation) (accepted []model.Observation, dropped int) {
	for _, o := range observations {
		if o.Currency != "" && o.Currency != a.cfg.Currency {
			dropped++
			continue
		}
		if o.Low <= 0 || o.High <= 0 || o.Low > o.High {
			dropped++
			continue
		}
		if o.Midpoint() < a.cfg.SanityFloor || o.Midpoint() > a.cfg.SanityCeiling {
			dropped++
			continue
		}
		accepted = append(accepted, o)
	}
	return accepted, dropped
}

// sortCanonical orders observations by source, then midpoint, low, high,
// and weight. Input permutations collapse to one ordering.
func sortCanonical(obs []model.Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Source != obs[j].Source {
			return obs[i].Source < obs[j].Source
		}
		if obs[i].Midpoint() != obs[j].Midpoint() {
			return obs[i].Midpoint() < obs[j].Midpoint()
		}
		if obs[i].Low != obs[j].Low {
			return obs[i].Low < obs[j].Low
		}
		if obs[i].High != obs[j].High {
			return obs[i].High < obs[j].High
		}
		return obs[i].Weight() > obs[j].Weight()
	})
}

// dedupe collapses observations from the same source whose midpoints agree
// within the configured relative tolerance, keeping the higher weight.
// Assumes canonical order.
func (a *Aggregator) dedupe(obs []model.Observation) ([]model.Observation, int) {
	if len(obs) < 2 {
		return obs, 0
	}

	out := obs[:0]
	collapsed := 0
	for _, o := range obs {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Source == o.Source && withinTolerance(prev.Midpoint(), o.Midpoint(), a.cfg.DedupTolerance) {
				collapsed++
				if o.Weight() > prev.Weight() {
					*prev = o
				}
				continue
			}
		}
		out = append(out, o)
	}
	return out, collapsed
}

func withinTolerance(a, b, tol float64) bool {
	ref := a
	if b > ref {
		ref = b
	}
	if ref == 0 {
		return true
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/ref <= tol
}

// rejectOutliers discards observations whose midpoint deviates from the
// sample median by more than MADMultiplier times the median absolute
// deviation. Robust to skew and stable for small samples.
func (a *Aggregator) rejectOutliers(obs []model.Observation) ([]model.Observation, int) {
	mids := make([]float64, len(obs))
	for i, o := range obs {
		mids[i] = o.Midpoint()
	}
	med := median(mids)

	devs := make([]float64, len(mids))
	for i, m := range mids {
		d := m - med
		if d < 0 {
			d = -d
		}
		devs[i] = d
	}
	mad := median(devs)

	// A mostly-identical sample has MAD zero, which would flag any nonzero
	// deviation, even one inside the dedup tolerance. Fall back to that
	// tolerance relative to the median.
	threshold := a.cfg.MADMultiplier * mad
	if mad == 0 {
		threshold = med * a.cfg.DedupTolerance
	}

	out := obs[:0]
	rejected := 0
	for i, o := range obs {
		if devs[i] > threshold {
			rejected++
			continue
		}
		out = append(out, o)
	}
	return out, rejected
}

// median returns the middle value of a sample. The input is not assumed
// sorted and is left unmodified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// computeRange derives the estimate from the accepted set: min is the
// weighted low percentile of range lows, max the weighted high percentile
// of range highs, median the weighted median of midpoints. Median is
// clamped into [min, max] so the range invariant always holds.
func (a *Aggregator) computeRange(obs []model.Observation) model.SalaryRange {
	lows := make([]weightedValue, len(obs))
	highs := make([]weightedValue, len(obs))
	mids := make([]weightedValue, len(obs))
	for i, o := range obs {
		w := o.Weight()
		lows[i] = weightedValue{o.Low, w}
		highs[i] = weightedValue{o.High, w}
		mids[i] = weightedValue{o.Midpoint(), w}
	}

	r := model.SalaryRange{
		Currency: a.cfg.Currency,
		Min:      weightedPercentile(lows, a.cfg.LowPercentile),
		Max:      weightedPercentile(highs, a.cfg.HighPercentile),
		Median:   weightedPercentile(mids, 0.5),
	}
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Median < r.Min {
		r.Median = r.Min
	}
	if r.Median > r.Max {
		r.Median = r.Max
	}
	return r
}

type weightedValue struct {
	value  float64
	weight float64
}

// weightedPercentile returns the smallest value whose cumulative weight
// reaches q of the total.
func weightedPercentile(values []weightedValue, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Slice(values, func(i, j int) bool { return values[i].value < values[j].value })

	var total float64
	for _, v := range values {
		total += v.weight
	}
	if total <= 0 {
		return values[len(values)/2].value
	}

	target := q * total
	var cum float64
	for _, v := range values {
		cum += v.weight
		if cum >= target {
			return v.value
		}
	}
	return values[len(values)-1].value
}

// relativeSpread measures how tight the pre-adjustment range is; 0 is a
// point estimate, 1 means the range is as wide as the median itself.
func relativeSpread(r model.SalaryRange) float64 {
	if r.Median <= 0 {
		return 1
	}
	return (r.Max - r.Min) / r.Median
}

// distinctSources lists sources in first-seen order over the accepted set.
func distinctSources(obs []model.Observation) []string {
	seen := make(map[string]bool, len(obs))
	var out []string
	for _, o := range obs {
		if !seen[o.Source] {
			seen[o.Source] = true
			out = append(out, o.Source)
		}
	}
	return out
}
