package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/comp-cli/internal/pipeline"
	"github.com/sells-group/comp-cli/internal/profile"
	"github.com/sells-group/comp-cli/internal/provider"
	"github.com/sells-group/comp-cli/internal/store"
	anthropicpkg "github.com/sells-group/comp-cli/pkg/anthropic"
	"github.com/sells-group/comp-cli/pkg/jina"
	"github.com/sells-group/comp-cli/pkg/perplexity"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "comp.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// pipelineEnv bundles the pipeline with the resources it owns.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initPipeline builds the full estimation pipeline from config: store,
// API clients, extractor, query generator, and both observation providers.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	jinaClient := jina.NewClient(cfg.Jina.Key, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
	perplexityClient := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model),
	)

	extractor := profile.NewExtractor(anthropicClient, cfg.Anthropic)
	queryGen := profile.NewQueryGenerator(anthropicClient, cfg.Anthropic, cfg.Estimator.MaxQueries)
	searchProv := provider.NewSearchProvider(jinaClient, perplexityClient, cfg.Estimator)
	kbProv := provider.NewKnowledgeProvider(st)

	p := pipeline.New(cfg.Estimator, st, extractor, queryGen, searchProv, kbProv)

	return &pipelineEnv{Pipeline: p, Store: st}, nil
}
