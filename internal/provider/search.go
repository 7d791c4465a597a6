package provider

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/pkg/jina"
	"github.com/sells-group/comp-cli/pkg/perplexity"
)

// trustedDomains boost the relevance of results from known salary sources.
var trustedDomains = []string{"levels.fyi", "glassdoor", "indeed", "payscale", "linkedin"}

// salaryKeywords boost results whose title or snippet talk about pay.
var salaryKeywords = []string{"salary", "compensation", "pay", "wage", "earning", "total comp"}

var (
	rangePattern  = regexp.MustCompile(`\$?([\d][\d,]*)(k|K)?\s*[-–]\s*\$?([\d][\d,]*)(k|K)?`)
	singlePattern = regexp.MustCompile(`\$([\d][\d,]*)(k|K)?`)
)

// SearchProvider fetches observations from web search results. Jina search
// is the primary backend; when it yields nothing, a single Perplexity query
// is used as a fallback.
type SearchProvider struct {
	jina       jina.Client
	perplexity perplexity.Client
	cfg        config.EstimatorConfig
	now        func() time.Time // injectable for testing
}

// NewSearchProvider creates a search-backed observation provider.
// perplexityClient may be nil to disable the fallback.
func NewSearchProvider(jinaClient jina.Client, perplexityClient perplexity.Client, cfg config.EstimatorConfig) *SearchProvider {
	return &SearchProvider{jina: jinaClient, perplexity: perplexityClient, cfg: cfg, now: time.Now}
}

func (p *SearchProvider) Name() string { return "search" }

// Observations runs every query against the search backend and parses
// salary figures out of the result snippets. Queries that fail are skipped;
// only a total transport failure surfaces as an error.
func (p *SearchProvider) Observations(ctx context.Context, req Request) ([]model.Observation, error) {
	var out []model.Observation
	var failures int

	for _, query := range req.Queries {
		resp, err := p.jina.Search(ctx, query)
		if err != nil {
			failures++
			zap.L().Warn("search: query failed", zap.String("query", query), zap.Error(err))
			continue
		}

		count := 0
		for _, r := range resp.Data {
			if count >= p.cfg.MaxResultsPerQuery {
				break
			}
			obs := p.fromResult(r)
			if len(obs) > 0 {
				count++
				out = append(out, obs...)
			}
		}
	}

	if failures == len(req.Queries) && len(req.Queries) > 0 {
		if p.perplexity == nil {
			return nil, eris.Errorf("search: all %d queries failed", failures)
		}
	}

	if len(out) == 0 && p.perplexity != nil {
		return p.fallback(ctx, req.Profile)
	}
	return out, nil
}

// fromResult extracts salary observations from one search result.
func (p *SearchProvider) fromResult(r jina.SearchResult) []model.Observation {
	source := domainOf(r.URL)
	if source == "" {
		return nil
	}

	text := r.Title + " " + r.Description + " " + r.Content
	lows, highs := extractSalaryMentions(text, p.cfg.SanityFloor, p.cfg.SanityCeiling)
	if len(lows) == 0 {
		return nil
	}

	weight := relevance(r, source, p.now().Year())
	snippet := r.Description
	if snippet == "" {
		snippet = truncate(r.Content, 200)
	}

	obs := make([]model.Observation, 0, len(lows))
	for i := range lows {
		obs = append(obs, model.Observation{
			Low:        lows[i],
			High:       highs[i],
			Currency:   p.cfg.Currency,
			Source:     source,
			WeightHint: weight,
			RawText:    truncate(r.Title+": "+snippet, 240),
		})
	}
	return obs
}

// fallback asks Perplexity directly for salary figures when search yields
// nothing.
func (p *SearchProvider) fallback(ctx context.Context, profile model.Profile) ([]model.Observation, error) {
	resp, err := p.perplexity.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "user", Content: "What is the typical annual salary range in USD for a " + profile.SearchContext() + "? Cite specific figures."},
		},
	})
	if err != nil {
		zap.L().Warn("search: perplexity fallback failed", zap.Error(err))
		return nil, nil
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	text := resp.Choices[0].Message.Content
	lows, highs := extractSalaryMentions(text, p.cfg.SanityFloor, p.cfg.SanityCeiling)

	obs := make([]model.Observation, 0, len(lows))
	for i := range lows {
		obs = append(obs, model.Observation{
			Low:        lows[i],
			High:       highs[i],
			Currency:   p.cfg.Currency,
			Source:     "perplexity.ai",
			WeightHint: model.DefaultSearchWeight,
			RawText:    truncate(text, 240),
		})
	}
	return obs, nil
}

// extractSalaryMentions finds salary figures in free text. Ranges like
// "$150k-$200k" yield one (low, high) pair; standalone figures yield
// low == high. Figures outside [floor, ceiling] are discarded.
func extractSalaryMentions(text string, floor, ceiling float64) (lows, highs []float64) {
	seen := make(map[[2]float64]bool)
	add := func(lo, hi float64) {
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo < floor || hi > ceiling {
			return
		}
		key := [2]float64{lo, hi}
		if seen[key] {
			return
		}
		seen[key] = true
		lows = append(lows, lo)
		highs = append(highs, hi)
	}

	// Ranges first; remove them so the single pass does not re-match their
	// endpoints.
	for _, m := range rangePattern.FindAllStringSubmatch(text, -1) {
		lo, okLo := parseAmount(m[1], m[2])
		hi, okHi := parseAmount(m[3], m[4])
		if okLo && okHi {
			add(lo, hi)
		}
	}
	text = rangePattern.ReplaceAllString(text, " ")

	for _, m := range singlePattern.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1], m[2]); ok {
			add(v, v)
		}
	}
	return lows, highs
}

// parseAmount converts a matched number and optional k-suffix to dollars.
func parseAmount(num, suffix string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if suffix != "" && v < 10_000 {
		v *= 1000
	}
	return v, true
}

// relevance scores a search result in [0,1] for use as a weight hint.
func relevance(r jina.SearchResult, source string, year int) float64 {
	score := 0.5

	for _, d := range trustedDomains {
		if strings.Contains(source, d) {
			score += 0.2
			break
		}
	}

	lower := strings.ToLower(r.Title + " " + r.Description)
	for _, kw := range salaryKeywords {
		if strings.Contains(lower, kw) {
			score += 0.15
			break
		}
	}

	if strings.Contains(lower, strconv.Itoa(year)) || strings.Contains(lower, strconv.Itoa(year-1)) {
		score += 0.1
	}

	if score > 0.95 {
		score = 0.95
	}
	return score
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so the
// result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
