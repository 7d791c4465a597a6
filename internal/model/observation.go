package model

// SourceInternalKB identifies observations that came from the benchmark store.
const SourceInternalKB = "internal_kb"

// Default weight hints by origin, used when a provider supplies none.
// Structured benchmark rows are considered more reliable than figures parsed
// out of free-text search snippets.
const (
	DefaultKBWeight     = 0.85
	DefaultSearchWeight = 0.5
)

// Observation is one normalized salary data point exchanged between a
// provider and the aggregator. Immutable once created: the aggregator
// selects and discards, it never mutates.
type Observation struct {
	// Low and High bound the observed figure. A point observation has
	// Low == High.
	Low  float64 `json:"low"`
	High float64 `json:"high"`

	Currency string `json:"currency"`

	// Source identifies the origin: SourceInternalKB or a domain name.
	Source string `json:"source"`

	// WeightHint is a provider-supplied reliability signal in [0,1].
	// Zero means "not set"; consumers fall back to a source-based default.
	WeightHint float64 `json:"weight_hint,omitempty"`

	// RawText is an optional provenance snippet.
	RawText string `json:"raw_text,omitempty"`
}

// PointObservation builds a single-value observation.
func PointObservation(amount float64, currency, source string) Observation {
	return Observation{Low: amount, High: amount, Currency: currency, Source: source}
}

// Midpoint is the value used for ranking, dedup, and outlier rejection.
func (o Observation) Midpoint() float64 {
	return (o.Low + o.High) / 2
}

// Weight returns the effective reliability weight: the provider hint when
// set, otherwise a source-based prior.
func (o Observation) Weight() float64 {
	if o.WeightHint > 0 {
		return o.WeightHint
	}
	if o.Source == SourceInternalKB {
		return DefaultKBWeight
	}
	return DefaultSearchWeight
}
