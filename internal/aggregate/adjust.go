package aggregate

import (
	"strings"

	"github.com/sells-group/comp-cli/internal/model"
)

// locationTier maps a recognizable location to a cost-of-living multiplier.
type locationTier struct {
	label      string
	multiplier float64
	markers    []string
}

// locationTiers are checked in order; the first match wins. Multipliers are
// tunable heuristics, not market truth.
var locationTiers = []locationTier{
	{"+15% for San Francisco Bay Area location", 1.15, []string{"san francisco", "bay area", "palo alto", "mountain view", "menlo park", "sunnyvale", "cupertino"}},
	{"+12% for New York City location", 1.12, []string{"new york", "nyc", "manhattan", "brooklyn"}},
	{"+8% for Seattle area location", 1.08, []string{"seattle", "bellevue", "redmond"}},
	{"-5% for Austin location", 0.95, []string{"austin"}},
	{"-10% for remote location", 0.90, []string{"remote"}},
}

// companyTiers maps extraction's company tier to a multiplier. Missing
// tiers are neutral.
var companyTiers = map[string]struct {
	label      string
	multiplier float64
}{
	model.TierFAANG:   {"+20% for FAANG-tier company", 1.20},
	model.TierOne:     {"+10% for top-tier company", 1.10},
	model.TierStartup: {"-5% for startup company", 0.95},
}

// experienceBracket is one years-of-experience band.
type experienceBracket struct {
	minYears   float64 // inclusive
	maxYears   float64 // exclusive; <0 means unbounded
	label      string  // empty for the neutral band
	multiplier float64
}

var experienceBrackets = []experienceBracket{
	{0, 2, "-10% for early-career experience (under 2 years)", 0.90},
	{2, 5, "", 1.0},
	{5, 8, "+5% for senior experience (5-8 years)", 1.05},
	{8, 12, "+10% for staff-level experience (8-12 years)", 1.10},
	{12, -1, "+15% for principal-level experience (12+ years)", 1.15},
}

// inDemandSkills carry a market premium. Matched case-insensitively against
// whole extracted skill names, not substrings.
var inDemandSkills = map[string]bool{
	"machine learning":    true,
	"distributed systems": true,
	"kubernetes":          true,
	"go":                  true,
	"golang":              true,
	"rust":                true,
	"terraform":           true,
	"security":            true,
	"data engineering":    true,
	"llms":                true,
}

const (
	skillPremiumLabel     = "+5% for in-demand skills"
	skillPremiumHighLabel = "+10% for multiple in-demand skills"
)

func countInDemandSkills(skills []string) int {
	n := 0
	for _, s := range skills {
		if inDemandSkills[strings.ToLower(strings.TrimSpace(s))] {
			n++
		}
	}
	return n
}

// applyAdjustments scales the range by profile-driven multipliers in a
// fixed order: location, company tier, experience, in-demand skills. Each
// applied adjustment yields one human-readable string; neutral or unknown
// facts yield nothing.
func (a *Aggregator) applyAdjustments(r model.SalaryRange, p model.Profile) (model.SalaryRange, []string) {
	var applied []string

	scale := func(mult float64, label string) {
		if mult == 1.0 || label == "" {
			return
		}
		r.Min *= mult
		r.Max *= mult
		r.Median *= mult
		applied = append(applied, label)
	}

	if loc := strings.ToLower(p.Location); loc != "" {
		for _, tier := range locationTiers {
			if matchesAny(loc, tier.markers) {
				scale(tier.multiplier, tier.label)
				break
			}
		}
	}

	if tier, ok := companyTiers[p.CompanyTier]; ok {
		scale(tier.multiplier, tier.label)
	}

	if p.HasExperience() {
		for _, b := range experienceBrackets {
			if p.YearsOfExperience >= b.minYears && (b.maxYears < 0 || p.YearsOfExperience < b.maxYears) {
				scale(b.multiplier, b.label)
				break
			}
		}
	}

	switch n := countInDemandSkills(p.Skills); {
	case n >= 3:
		scale(1.10, skillPremiumHighLabel)
	case n >= 1:
		scale(1.05, skillPremiumLabel)
	}

	return r, applied
}

func matchesAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
