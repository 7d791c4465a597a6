package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/pkg/anthropic"
)

// QueryGenerator produces search queries for a profile. Implementations
// always return at least one query.
type QueryGenerator interface {
	Generate(ctx context.Context, p model.Profile) []string
}

const querySystem = `You craft web search queries that surface accurate salary data.

Given a professional profile, generate 3-5 targeted queries. Include the job
title, location, and current year; target known salary sources (levels.fyi,
glassdoor, linkedin salary, indeed, payscale); vary between exact and similar
titles; add seniority qualifiers where appropriate.

Return a JSON object: {"queries": ["...", "..."]}`

const queryMaxTokens = 512

// claudeQueryGenerator asks Claude for query variations and falls back to
// deterministic templates when the call fails or yields nothing.
type claudeQueryGenerator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
	max    int
	now    func() time.Time // injectable for testing
}

// NewQueryGenerator creates a Claude-backed query generator. maxQueries
// bounds the returned slice.
func NewQueryGenerator(client anthropic.Client, cfg config.AnthropicConfig, maxQueries int) QueryGenerator {
	return &claudeQueryGenerator{client: client, cfg: cfg, max: maxQueries, now: time.Now}
}

func (g *claudeQueryGenerator) Generate(ctx context.Context, p model.Profile) []string {
	queries := g.fromModel(ctx, p)
	if len(queries) == 0 {
		queries = FallbackQueries(p, g.now().Year())
	}
	if g.max > 0 && len(queries) > g.max {
		queries = queries[:g.max]
	}
	return queries
}

func (g *claudeQueryGenerator) fromModel(ctx context.Context, p model.Profile) []string {
	temp := 0.3
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.cfg.Model,
		MaxTokens:   queryMaxTokens,
		System:      querySystem,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Generate salary search queries for this profile:\n\n" + p.SearchContext()},
		},
	})
	if err != nil {
		zap.L().Warn("profile: query generation call failed, using fallback", zap.Error(err))
		return nil
	}

	var out struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &out); err != nil {
		zap.L().Warn("profile: query generation parse failed, using fallback", zap.Error(err))
		return nil
	}

	var queries []string
	for _, q := range out.Queries {
		if strings.TrimSpace(q) != "" {
			queries = append(queries, strings.TrimSpace(q))
		}
	}
	return queries
}

// FallbackQueries builds deterministic queries from profile fields. A
// profile with no distinguishing fields degrades to a generic salary query
// rather than failing.
func FallbackQueries(p model.Profile, year int) []string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return []string{fmt.Sprintf("average tech salary %d", year)}
	}

	queries := []string{fmt.Sprintf("%s salary %d", title, year)}
	if p.Location != "" {
		queries = append(queries, fmt.Sprintf("%s salary %s", title, p.Location))
	}
	if p.Company != "" {
		queries = append(queries, fmt.Sprintf("%s %s compensation levels.fyi", p.Company, title))
	}
	queries = append(queries, fmt.Sprintf("%s total compensation glassdoor", title))
	return queries
}
