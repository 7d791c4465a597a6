package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Estimator  EstimatorConfig  `yaml:"estimator" mapstructure:"estimator"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings for profile extraction and
// query generation.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// JinaConfig holds Jina search API settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// PerplexityConfig holds Perplexity API settings (search fallback).
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// EstimatorConfig holds every tunable threshold in the aggregation and
// orchestration path. Nothing in the estimator is an inlined magic number;
// tests override these fields directly.
type EstimatorConfig struct {
	// Orchestration.
	MaxQueries         int `yaml:"max_queries" mapstructure:"max_queries"`
	BranchTimeoutSecs  int `yaml:"branch_timeout_secs" mapstructure:"branch_timeout_secs"`
	MaxResultsPerQuery int `yaml:"max_results_per_query" mapstructure:"max_results_per_query"`

	// Observation hygiene.
	Currency       string  `yaml:"currency" mapstructure:"currency"`
	SanityFloor    float64 `yaml:"sanity_floor" mapstructure:"sanity_floor"`
	SanityCeiling  float64 `yaml:"sanity_ceiling" mapstructure:"sanity_ceiling"`
	DedupTolerance float64 `yaml:"dedup_tolerance" mapstructure:"dedup_tolerance"`

	// Outlier rejection.
	MADMultiplier float64 `yaml:"mad_multiplier" mapstructure:"mad_multiplier"`
	MinForOutlier int     `yaml:"min_for_outlier" mapstructure:"min_for_outlier"`

	// Range percentiles.
	LowPercentile  float64 `yaml:"low_percentile" mapstructure:"low_percentile"`
	HighPercentile float64 `yaml:"high_percentile" mapstructure:"high_percentile"`

	// Confidence scoring.
	PointsSaturation  float64 `yaml:"points_saturation" mapstructure:"points_saturation"`
	SourcesSaturation float64 `yaml:"sources_saturation" mapstructure:"sources_saturation"`
	PointsWeight      float64 `yaml:"points_weight" mapstructure:"points_weight"`
	SourcesWeight     float64 `yaml:"sources_weight" mapstructure:"sources_weight"`
	SpreadWeight      float64 `yaml:"spread_weight" mapstructure:"spread_weight"`
	MediumThreshold   float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
	HighThreshold     float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
}

// DefaultEstimator returns the estimator thresholds used when no overrides
// are configured. Kept in sync with the viper defaults in Load.
func DefaultEstimator() EstimatorConfig {
	return EstimatorConfig{
		MaxQueries:         5,
		BranchTimeoutSecs:  15,
		MaxResultsPerQuery: 5,
		Currency:           "USD",
		SanityFloor:        10_000,
		SanityCeiling:      5_000_000,
		DedupTolerance:     0.02,
		MADMultiplier:      3.0,
		MinForOutlier:      3,
		LowPercentile:      0.10,
		HighPercentile:     0.90,
		PointsSaturation:   8,
		SourcesSaturation:  4,
		PointsWeight:       0.5,
		SourcesWeight:      0.25,
		SpreadWeight:       0.25,
		MediumThreshold:    0.4,
		HighThreshold:      0.7,
	}
}

// ServerConfig configures the HTTP estimate server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "comp.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("estimator.max_queries", 5)
	v.SetDefault("estimator.branch_timeout_secs", 15)
	v.SetDefault("estimator.max_results_per_query", 5)
	v.SetDefault("estimator.currency", "USD")
	v.SetDefault("estimator.sanity_floor", 10_000)
	v.SetDefault("estimator.sanity_ceiling", 5_000_000)
	v.SetDefault("estimator.dedup_tolerance", 0.02)
	v.SetDefault("estimator.mad_multiplier", 3.0)
	v.SetDefault("estimator.min_for_outlier", 3)
	v.SetDefault("estimator.low_percentile", 0.10)
	v.SetDefault("estimator.high_percentile", 0.90)
	v.SetDefault("estimator.points_saturation", 8)
	v.SetDefault("estimator.sources_saturation", 4)
	v.SetDefault("estimator.points_weight", 0.5)
	v.SetDefault("estimator.sources_weight", 0.25)
	v.SetDefault("estimator.spread_weight", 0.25)
	v.SetDefault("estimator.medium_threshold", 0.4)
	v.SetDefault("estimator.high_threshold", 0.7)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
