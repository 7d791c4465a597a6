package aggregate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/comp-cli/internal/model"
)

const noDataReasoning = "No salary data was found for this profile; no estimate can be made."

// scoreConfidence combines evidence volume, source diversity, and range
// tightness into a score in [0,1]. More data points never lower the score
// when diversity and spread are held fixed.
func (a *Aggregator) scoreConfidence(dataPoints, sources int, spread float64) model.Confidence {
	score := a.cfg.PointsWeight*saturating(float64(dataPoints), a.cfg.PointsSaturation) +
		a.cfg.SourcesWeight*saturating(float64(sources), a.cfg.SourcesSaturation) +
		a.cfg.SpreadWeight*(1-clamp01(spread))

	score = clamp01(score)

	return model.Confidence{
		Score:      score,
		Level:      a.level(score),
		DataPoints: dataPoints,
	}
}

// level buckets a score into low/medium/high. Buckets are fixed,
// non-overlapping, and cover [0,1] exactly.
func (a *Aggregator) level(score float64) string {
	switch {
	case score < a.cfg.MediumThreshold:
		return model.LevelLow
	case score < a.cfg.HighThreshold:
		return model.LevelMedium
	default:
		return model.LevelHigh
	}
}

func saturating(v, saturation float64) float64 {
	if saturation <= 0 {
		return 1
	}
	return clamp01(v / saturation)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// usd renders amounts with thousands separators for reasoning strings.
var usd = message.NewPrinter(language.AmericanEnglish)

// reasoning composes the explanation by template substitution, so identical
// inputs always produce the identical string.
func (a *Aggregator) reasoning(r model.SalaryRange, dataPoints int, sources, adjustments []string) string {
	var b strings.Builder
	usd.Fprintf(&b, "Estimated %s %.0f-%.0f (median %.0f) from %d salary data point(s) across %d source(s): %s.",
		r.Currency, r.Min, r.Max, r.Median, dataPoints, len(sources), strings.Join(sources, ", "))
	if len(adjustments) > 0 {
		b.WriteString(" Adjustments applied: ")
		b.WriteString(strings.Join(adjustments, "; "))
		b.WriteString(".")
	}
	return b.String()
}
