// Package pipeline orchestrates the five-stage salary estimation workflow:
// extract profile, generate queries, fan out to observation providers, join,
// aggregate.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/comp-cli/internal/aggregate"
	"github.com/sells-group/comp-cli/internal/config"
	"github.com/sells-group/comp-cli/internal/model"
	"github.com/sells-group/comp-cli/internal/profile"
	"github.com/sells-group/comp-cli/internal/provider"
	"github.com/sells-group/comp-cli/internal/store"
)

// Pipeline wires the extraction, query generation, provider, and
// aggregation stages together.
type Pipeline struct {
	cfg        config.EstimatorConfig
	store      store.Store
	extractor  profile.Extractor
	queries    profile.QueryGenerator
	search     provider.ObservationProvider
	knowledge  provider.ObservationProvider
	aggregator *aggregate.Aggregator
}

// New creates a Pipeline with all dependencies. store may be nil, in which
// case runs are not recorded.
func New(
	cfg config.EstimatorConfig,
	st store.Store,
	extractor profile.Extractor,
	queries profile.QueryGenerator,
	search provider.ObservationProvider,
	knowledge provider.ObservationProvider,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		extractor:  extractor,
		queries:    queries,
		search:     search,
		knowledge:  knowledge,
		aggregator: aggregate.New(cfg),
	}
}

// Run executes the full pipeline for one profile text. Only profile
// extraction failure is terminal; provider failures and empty data degrade
// into the confidence score of the returned result.
func (p *Pipeline) Run(ctx context.Context, profileText string) (*model.EstimationResult, error) {
	log := zap.L()
	start := time.Now()

	runID := p.recordStart(ctx, profileText)

	// Stage 1: profile extraction. Everything downstream depends on the
	// profile, so failure here aborts before any provider call.
	prof, err := p.extractor.Extract(ctx, profileText)
	if err != nil {
		p.recordStatus(ctx, runID, model.RunStatusFailed)
		return nil, eris.Wrap(err, "pipeline: extract profile")
	}
	log.Info("pipeline: profile extracted",
		zap.String("title", prof.Title),
		zap.String("company", prof.Company),
		zap.String("location", prof.Location),
	)

	// Stage 2: query generation. Always yields at least one query.
	queries := p.queries.Generate(ctx, prof)
	log.Debug("pipeline: queries generated", zap.Strings("queries", queries))

	// Stage 3: parallel fan-out to both providers. Each branch returns its
	// own slice; nothing is shared until the join below.
	searchObs, kbObs := p.fanOut(ctx, prof, queries)

	// Join: set union of whatever each branch returned. A failed or timed
	// out branch contributed an empty slice.
	observations := make([]model.Observation, 0, len(searchObs)+len(kbObs))
	observations = append(observations, searchObs...)
	observations = append(observations, kbObs...)
	log.Info("pipeline: observations collected",
		zap.Int("search", len(searchObs)),
		zap.Int("knowledge_base", len(kbObs)),
	)

	// Stages 4 and 5: aggregate and assemble.
	out := p.aggregator.Aggregate(observations, prof)
	result := aggregate.Assemble(prof, out)

	p.recordResult(ctx, runID, result)
	log.Info("pipeline: run complete",
		zap.Duration("duration", time.Since(start)),
		zap.Float64("score", result.Confidence.Score),
		zap.String("level", result.Confidence.Level),
		zap.Int("data_points", result.Confidence.DataPoints),
	)
	return result, nil
}

// fanOut runs both providers concurrently, each bounded by the per-branch
// timeout. Branch failures are non-fatal and yield empty slices.
func (p *Pipeline) fanOut(ctx context.Context, prof model.Profile, queries []string) (searchObs, kbObs []model.Observation) {
	timeout := time.Duration(p.cfg.BranchTimeoutSecs) * time.Second

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		searchObs = p.collect(gCtx, p.search, provider.Request{Profile: prof, Queries: queries}, timeout)
		return nil
	})
	g.Go(func() error {
		kbObs = p.collect(gCtx, p.knowledge, provider.Request{Profile: prof}, timeout)
		return nil
	})

	_ = g.Wait()
	return searchObs, kbObs
}

// collect invokes one provider under its own timeout. Errors and timeouts
// are logged and absorbed into an empty result.
func (p *Pipeline) collect(ctx context.Context, prov provider.ObservationProvider, req provider.Request, timeout time.Duration) []model.Observation {
	branchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		branchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	obs, err := prov.Observations(branchCtx, req)
	if err != nil {
		zap.L().Warn("pipeline: provider branch failed",
			zap.String("provider", prov.Name()),
			zap.Error(err),
		)
		return nil
	}
	return obs
}

// recordStart creates the run row. Persistence failures never block a run.
func (p *Pipeline) recordStart(ctx context.Context, profileText string) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, profileText)
	if err != nil {
		zap.L().Warn("pipeline: create run record failed", zap.Error(err))
		return ""
	}
	p.recordStatus(ctx, run.ID, model.RunStatusRunning)
	return run.ID
}

func (p *Pipeline) recordStatus(ctx context.Context, runID string, status model.RunStatus) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
		zap.L().Warn("pipeline: update run status failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func (p *Pipeline) recordResult(ctx context.Context, runID string, result *model.EstimationResult) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.UpdateRunResult(ctx, runID, result); err != nil {
		zap.L().Warn("pipeline: update run result failed", zap.String("run_id", runID), zap.Error(err))
	}
}
