package model

// Confidence levels, bucketed deterministically from the score.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// SalaryRange is the estimated range. Median always satisfies
// Min <= Median <= Max; it is derived during aggregation, never set
// independently.
type SalaryRange struct {
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
}

// Empty reports whether the range carries no estimate (the zero-data case).
func (r SalaryRange) Empty() bool {
	return r.Min == 0 && r.Max == 0 && r.Median == 0
}

// Confidence describes how much to trust the estimate.
type Confidence struct {
	Score      float64  `json:"score"`
	Level      string   `json:"level"`
	DataPoints int      `json:"data_points"`
	Factors    []string `json:"factors"`
}

// EstimationResult is the externally visible output record. Field names are
// part of the serialization contract.
type EstimationResult struct {
	ProfileSummary ProfileSummary `json:"profile_summary"`
	SalaryEstimate SalaryRange    `json:"salary_estimate"`
	Confidence     Confidence     `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	Sources        []string       `json:"sources"`
	Adjustments    []string       `json:"adjustments"`
}
