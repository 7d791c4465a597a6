package model

import "time"

// RunStatus tracks a pipeline run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded estimation run.
type Run struct {
	ID        string            `json:"id"`
	Profile   string            `json:"profile"` // raw profile text as submitted
	Status    RunStatus         `json:"status"`
	Result    *EstimationResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Benchmark is one row of the internal knowledge base: a salary range for a
// role/location/tier bracket.
type Benchmark struct {
	ID           string  `json:"id" yaml:"-"`
	Role         string  `json:"role" yaml:"role"`
	Location     string  `json:"location" yaml:"location"`
	CompanyTier  string  `json:"company_tier" yaml:"company_tier"`
	YearsMin     float64 `json:"years_min" yaml:"years_min"`
	YearsMax     float64 `json:"years_max" yaml:"years_max"`
	SalaryMin    float64 `json:"salary_min" yaml:"salary_min"`
	SalaryMax    float64 `json:"salary_max" yaml:"salary_max"`
	SalaryMedian float64 `json:"salary_median" yaml:"salary_median"`
	Currency     string  `json:"currency" yaml:"currency"`
	Year         int     `json:"year" yaml:"year"`
}
