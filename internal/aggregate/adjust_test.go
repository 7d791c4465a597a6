package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
)

func baseRange() model.SalaryRange {
	return model.SalaryRange{Currency: "USD", Min: 100_000, Max: 200_000, Median: 150_000}
}

func TestApplyAdjustments_Location(t *testing.T) {
	agg := New(config.DefaultEstimator())

	tests := []struct {
		name     string
		location string
		mult     float64
		label    string
	}{
		{"bay area", "San Francisco Bay Area", 1.15, "+15% for San Francisco Bay Area location"},
		{"palo alto", "Palo Alto, CA", 1.15, "+15% for San Francisco Bay Area location"},
		{"nyc", "New York, NY", 1.12, "+12% for New York City location"},
		{"seattle", "Seattle, WA", 1.08, "+8% for Seattle area location"},
		{"austin", "Austin, TX", 0.95, "-5% for Austin location"},
		{"remote", "Remote (US)", 0.90, "-10% for remote location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Profile{Title: "Engineer", Location: tt.location, YearsOfExperience: model.UnknownYears, CompanyTier: model.TierUnknown}
			r, applied := agg.applyAdjustments(baseRange(), p)

			assert.Equal(t, []string{tt.label}, applied)
			assert.InDelta(t, 100_000*tt.mult, r.Min, 1)
			assert.InDelta(t, 200_000*tt.mult, r.Max, 1)
			assert.InDelta(t, 150_000*tt.mult, r.Median, 1)
		})
	}
}

func TestApplyAdjustments_UnknownLocationNeutral(t *testing.T) {
	agg := New(config.DefaultEstimator())

	p := model.Profile{Title: "Engineer", Location: "Boise, ID", YearsOfExperience: model.UnknownYears, CompanyTier: model.TierUnknown}
	r, applied := agg.applyAdjustments(baseRange(), p)

	assert.Empty(t, applied)
	assert.Equal(t, baseRange(), r)
}

func TestApplyAdjustments_CompanyTier(t *testing.T) {
	agg := New(config.DefaultEstimator())

	tests := []struct {
		tier  string
		mult  float64
		label string
	}{
		{model.TierFAANG, 1.20, "+20% for FAANG-tier company"},
		{model.TierOne, 1.10, "+10% for top-tier company"},
		{model.TierStartup, 0.95, "-5% for startup company"},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			p := model.Profile{Title: "Engineer", CompanyTier: tt.tier, YearsOfExperience: model.UnknownYears}
			r, applied := agg.applyAdjustments(baseRange(), p)

			assert.Equal(t, []string{tt.label}, applied)
			assert.InDelta(t, 150_000*tt.mult, r.Median, 1)
		})
	}
}

func TestApplyAdjustments_TierTwoAndUnknownNeutral(t *testing.T) {
	agg := New(config.DefaultEstimator())

	for _, tier := range []string{model.TierTwo, model.TierUnknown, ""} {
		p := model.Profile{Title: "Engineer", CompanyTier: tier, YearsOfExperience: model.UnknownYears}
		r, applied := agg.applyAdjustments(baseRange(), p)
		assert.Empty(t, applied, "tier %q", tier)
		assert.Equal(t, baseRange(), r)
	}
}

func TestApplyAdjustments_ExperienceBrackets(t *testing.T) {
	agg := New(config.DefaultEstimator())

	tests := []struct {
		years float64
		mult  float64
		label string
	}{
		{1, 0.90, "-10% for early-career experience (under 2 years)"},
		{6, 1.05, "+5% for senior experience (5-8 years)"},
		{9, 1.10, "+10% for staff-level experience (8-12 years)"},
		{15, 1.15, "+15% for principal-level experience (12+ years)"},
	}

	for _, tt := range tests {
		p := model.Profile{Title: "Engineer", YearsOfExperience: tt.years, CompanyTier: model.TierUnknown}
		r, applied := agg.applyAdjustments(baseRange(), p)

		assert.Equal(t, []string{tt.label}, applied, "years %.0f", tt.years)
		assert.InDelta(t, 150_000*tt.mult, r.Median, 1, "years %.0f", tt.years)
	}
}

func TestApplyAdjustments_MidCareerAndUnknownExperienceNeutral(t *testing.T) {
	agg := New(config.DefaultEstimator())

	for _, years := range []float64{2, 3, 4.5, model.UnknownYears} {
		p := model.Profile{Title: "Engineer", YearsOfExperience: years, CompanyTier: model.TierUnknown}
		r, applied := agg.applyAdjustments(baseRange(), p)
		assert.Empty(t, applied, "years %.1f", years)
		assert.Equal(t, baseRange(), r)
	}
}

func TestApplyAdjustments_InDemandSkills(t *testing.T) {
	agg := New(config.DefaultEstimator())

	tests := []struct {
		name   string
		skills []string
		mult   float64
		labels []string
	}{
		{"no skills", nil, 1.0, nil},
		{"ordinary skills", []string{"Excel", "PowerPoint"}, 1.0, nil},
		{"one premium skill", []string{"Kubernetes", "Excel"}, 1.05, []string{skillPremiumLabel}},
		{"three premium skills", []string{"Go", "Rust", "Distributed Systems"}, 1.10, []string{skillPremiumHighLabel}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Profile{Title: "Engineer", Skills: tt.skills, YearsOfExperience: model.UnknownYears, CompanyTier: model.TierUnknown}
			r, applied := agg.applyAdjustments(baseRange(), p)

			assert.Equal(t, tt.labels, applied)
			assert.InDelta(t, 150_000*tt.mult, r.Median, 1)
		})
	}
}

func TestApplyAdjustments_SkillNamesNotSubstringMatched(t *testing.T) {
	agg := New(config.DefaultEstimator())

	// "Django" must not count as "go".
	p := model.Profile{Title: "Engineer", Skills: []string{"Django"}, YearsOfExperience: model.UnknownYears, CompanyTier: model.TierUnknown}
	_, applied := agg.applyAdjustments(baseRange(), p)
	assert.Empty(t, applied)
}

func TestApplyAdjustments_FixedOrder(t *testing.T) {
	agg := New(config.DefaultEstimator())

	p := model.Profile{
		Title:             "Engineer",
		Location:          "Seattle, WA",
		CompanyTier:       model.TierOne,
		YearsOfExperience: 6,
		Skills:            []string{"Kubernetes"},
	}
	r, applied := agg.applyAdjustments(baseRange(), p)

	// Location, then company tier, then experience, then skills.
	assert.Equal(t, []string{
		"+8% for Seattle area location",
		"+10% for top-tier company",
		"+5% for senior experience (5-8 years)",
		skillPremiumLabel,
	}, applied)
	assert.InDelta(t, 150_000*1.08*1.10*1.05*1.05, r.Median, 1)
}

func TestApplyAdjustments_FirstLocationMatchWins(t *testing.T) {
	agg := New(config.DefaultEstimator())

	// "remote from brooklyn" matches both NYC and remote markers; the
	// earlier (NYC) tier takes precedence.
	p := model.Profile{Title: "Engineer", Location: "Remote from Brooklyn", YearsOfExperience: model.UnknownYears, CompanyTier: model.TierUnknown}
	_, applied := agg.applyAdjustments(baseRange(), p)

	assert.Equal(t, []string{"+12% for New York City location"}, applied)
}
