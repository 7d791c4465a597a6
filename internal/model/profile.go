package model

import (
	"fmt"
	"strings"
)

// UnknownYears is the sentinel for a profile with no discernible experience.
const UnknownYears = -1

// Company tier classifications, as produced by profile extraction.
const (
	TierFAANG   = "faang"
	TierOne     = "tier1"
	TierTwo     = "tier2"
	TierStartup = "startup"
	TierUnknown = "unknown"
)

// Profile is the structured output of profile extraction. It is built once
// per run and consumed read-only by query generation and aggregation.
// Missing fields are explicit unknowns (empty string, UnknownYears), never
// silently zeroed.
type Profile struct {
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	CompanyTier       string   `json:"company_tier"`
	YearsOfExperience float64  `json:"years_of_experience"`
	Location          string   `json:"location"`
	Skills            []string `json:"skills"`
	SeniorityLevel    string   `json:"seniority_level"`
}

// Usable reports whether extraction produced enough signal to proceed.
// A profile needs at least a title; everything else degrades gracefully.
func (p Profile) Usable() bool {
	return strings.TrimSpace(p.Title) != ""
}

// HasExperience reports whether years of experience is known.
func (p Profile) HasExperience() bool {
	return p.YearsOfExperience >= 0
}

// SearchContext renders the profile as a short context string for query
// generation prompts.
func (p Profile) SearchContext() string {
	parts := []string{p.Title}
	if p.Company != "" {
		parts = append(parts, "at "+p.Company)
	}
	if p.Location != "" {
		parts = append(parts, "in "+p.Location)
	}
	if p.HasExperience() {
		parts = append(parts, fmt.Sprintf("with %.0f years experience", p.YearsOfExperience))
	}
	return strings.Join(parts, " ")
}

// Summary returns the profile fields exposed on the output boundary.
func (p Profile) Summary() ProfileSummary {
	return ProfileSummary{
		Title:             p.Title,
		Company:           p.Company,
		YearsOfExperience: p.YearsOfExperience,
		Location:          p.Location,
	}
}

// ProfileSummary is the profile subset included in an EstimationResult.
type ProfileSummary struct {
	Title             string  `json:"title"`
	Company           string  `json:"company"`
	YearsOfExperience float64 `json:"years_of_experience"`
	Location          string  `json:"location"`
}
