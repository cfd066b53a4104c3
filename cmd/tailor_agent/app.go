package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/rs/zerolog"
)

// app holds the components one command invocation needs
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	engine  *rules.Engine
	scorer  *scoring.Scorer
	tailor  *tailoring.Tailor
	store   *db.RunStore
	metrics *observability.Metrics
	closers []func() error
}

// loadApp reads configuration and builds the deterministic components.
// LLM, cache and storage are added by the commands that need them.
func loadApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := observability.NewLogger(cfg.Log, os.Stderr)

	engine, err := loadEngine(cfg.Tailoring.RulesFile, logger)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(cfg.Tailoring.Weights)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	return &app{cfg: cfg, logger: logger, engine: engine, scorer: scorer}, nil
}

// loadEngine loads a rule file, or the built-in rules when path is empty
func loadEngine(path string, logger zerolog.Logger) (*rules.Engine, error) {
	var (
		set *rules.RuleSet
		err error
	)
	if path == "" {
		set, err = rules.DefaultRules()
	} else {
		set, err = rules.LoadRulesFile(path)
	}
	if err != nil {
		return nil, err
	}
	engine := rules.NewEngine(set.Rules, logger)
	if len(engine.Rules()) == 0 {
		return nil, fmt.Errorf("no valid rules loaded")
	}
	return engine, nil
}

// withTailor adds the LLM client, the analysis cache when configured, and the pipeline
func (a *app) withTailor(ctx context.Context) error {
	client, err := llm.NewClient(ctx, a.cfg.LLMClientConfig(), a.cfg.LLM.APIKey, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM client (set GEMINI_API_KEY or llm.api_key): %w", err)
	}
	a.closers = append(a.closers, client.Close)

	opts := []analysis.Option{analysis.WithLogger(a.logger)}
	if redisOpts, ok := a.cfg.RedisOptions(); ok {
		cache, err := analysis.ConnectRedis(ctx, redisOpts)
		if err != nil {
			// analysis still works uncached
			a.logger.Warn().Err(err).Str("addr", redisOpts.Addr).Msg("Analysis cache unavailable")
		} else {
			a.closers = append(a.closers, cache.Close)
			opts = append(opts, analysis.WithCache(cache))
		}
	}

	analyzer := llm.NewAnalyzer(client, a.logger)
	a.tailor, err = tailoring.New(tailoring.Config{
		Engine:         a.engine,
		Collector:      analysis.NewCollector(analyzer.Analyzers(), opts...),
		Rewriter:       llm.NewRewriter(client, a.logger),
		Scorer:         a.scorer,
		Logger:         a.logger,
		RewriteTimeout: a.cfg.Tailoring.RewriteTimeout,
	})
	return err
}

// withStore opens and migrates the database when one is configured
func (a *app) withStore(ctx context.Context) error {
	if a.cfg.Database.URL == "" {
		return nil
	}
	conn, err := db.Open(ctx, a.cfg.Database.URL, a.cfg.DatabaseOptions())
	if err != nil {
		return err
	}
	a.closers = append(a.closers, conn.Close)
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}
	a.store = db.NewRunStore(conn)
	a.logger.Info().Str("database", redactURL(a.cfg.Database.URL)).Msg("Run storage enabled")
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("Error releasing resource")
		}
	}
}

// redactURL masks the password of a connection URL for logging. Key/value
// DSNs are not URLs and are hidden entirely.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "[redacted]"
	}
	return u.Redacted()
}
