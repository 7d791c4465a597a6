// Package profile turns free-text profiles into structured data and search
// queries via Claude.
package profile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/pkg/anthropic"
)

// Extractor produces a structured Profile from raw profile text.
type Extractor interface {
	Extract(ctx context.Context, profileText string) (model.Profile, error)
}

const extractionSystem = `You are an expert at extracting structured information from professional profiles.
Given a profile (as text or semi-structured data), extract:

1. title: current job title/role
2. company: current company name
3. company_tier: one of 'faang', 'tier1', 'tier2', 'startup', 'unknown'
4. years_of_experience: total years of professional experience (sum position durations if needed); -1 if not determinable
5. location: work location (city, state/country); "" if not determinable
6. skills: up to 10 key technical or professional skills
7. seniority_level: one of 'entry', 'mid', 'senior', 'staff', 'principal', 'executive'; "" if not determinable

Extract only what is explicitly stated or can be reasonably inferred. Use the
explicit unknown markers above for fields you cannot determine; never invent values.

Return a single JSON object with exactly those keys.`

const extractionMaxTokens = 1024

// claudeExtractor implements Extractor with an Anthropic message call.
type claudeExtractor struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewExtractor creates a Claude-backed profile extractor.
func NewExtractor(client anthropic.Client, cfg config.AnthropicConfig) Extractor {
	return &claudeExtractor{client: client, cfg: cfg}
}

func (e *claudeExtractor) Extract(ctx context.Context, profileText string) (model.Profile, error) {
	if strings.TrimSpace(profileText) == "" {
		return model.Profile{}, eris.New("profile: empty profile text")
	}

	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   extractionMaxTokens,
		System:      extractionSystem,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Extract structured information from this profile:\n\n" + profileText},
		},
	})
	if err != nil {
		return model.Profile{}, eris.Wrap(err, "profile: extraction call")
	}

	// Pre-seed the unknown sentinel so a response that omits the field
	// decodes to "unknown" rather than zero years.
	p := model.Profile{YearsOfExperience: model.UnknownYears}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &p); err != nil {
		return model.Profile{}, eris.Wrap(err, "profile: parse extraction JSON")
	}

	if !p.Usable() {
		return model.Profile{}, eris.New("profile: extraction produced no usable title")
	}
	if p.CompanyTier == "" {
		p.CompanyTier = model.TierUnknown
	}

	zap.L().Debug("profile: extracted",
		zap.String("title", p.Title),
		zap.String("company", p.Company),
		zap.String("location", p.Location),
		zap.Float64("years", p.YearsOfExperience),
	)
	return p, nil
}

// cleanJSON strips markdown fences and surrounding prose from a model
// response, leaving the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
