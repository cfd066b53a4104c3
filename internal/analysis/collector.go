package analysis

import (
	"context"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sub-analysis capabilities. Implementations may call an LLM or a deterministic
// heuristic; the collector treats them as opaque.
type (
	ImpactFunc     func(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.ImpactResult, error)
	UniquenessFunc func(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.UniquenessResult, error)
	ContextFunc    func(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.ContextResult, error)
	CompanyFunc    func(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.CompanyResearchResult, error)
	SoftSkillsFunc func(ctx context.Context, resume *types.ResumeContent, job *types.JobData) ([]types.SoftSkillAssessment, error)
)

// Analyzers groups the configured capabilities. A nil capability is skipped
// and leaves its sub-result nil.
type Analyzers struct {
	Impact     ImpactFunc
	Uniqueness UniquenessFunc
	Context    ContextFunc
	Company    CompanyFunc
	SoftSkills SoftSkillsFunc
}

// Collector runs the analyzers for a résumé and job and bundles the results
type Collector struct {
	analyzers Analyzers
	cache     Cache
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Collector
type Option func(*Collector)

// WithCache enables caching of sub-analysis results
func WithCache(cache Cache) Option {
	return func(c *Collector) { c.cache = cache }
}

// WithLogger sets the collector logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// WithClock overrides the timestamp source of AnalyzedAt
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector creates a collector for the given analyzers
func NewCollector(analyzers Analyzers, opts ...Option) *Collector {
	c := &Collector{
		analyzers: analyzers,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "analysis").Logger()
	return c
}

// Collect runs every configured analyzer concurrently. A failing analyzer is
// logged and its sub-result left nil; the only error returned is cancellation
// of ctx. Tokens the analyzers report through ReportUsage are summed into
// the bundle's TokenUsage.
func (c *Collector) Collect(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.PreAnalysisResult, error) {
	if resume == nil || job == nil {
		return nil, &Error{Message: "resume and job are required"}
	}

	ctx, meter := withUsageMeter(ctx)
	var parts Parts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parts.Impact = runAnalyzer(gctx, c, KindImpact, resume, job, c.analyzers.Impact)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.Uniqueness = runAnalyzer(gctx, c, KindUniqueness, resume, job, c.analyzers.Uniqueness)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.Context = runAnalyzer(gctx, c, KindContext, resume, job, c.analyzers.Context)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.Company = runAnalyzer(gctx, c, KindCompany, resume, job, c.analyzers.Company)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.SoftSkills = runAnalyzer(gctx, c, KindSoftSkills, resume, job, c.analyzers.SoftSkills)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, &Error{Message: "analysis cancelled", Cause: err}
	}

	result := Aggregate(resume.ID, job.ID, parts, c.now())
	result.TokenUsage = meter.sum()
	return result, nil
}

// Reanalyze scores a tailored résumé against the same job. Only the analyses
// that depend on résumé wording run again; company research and soft skills
// carry over from previous. With no previous bundle it behaves like Collect.
func (c *Collector) Reanalyze(ctx context.Context, tailored *types.ResumeContent, job *types.JobData, previous *types.PreAnalysisResult) (*types.PreAnalysisResult, error) {
	if previous == nil {
		return c.Collect(ctx, tailored, job)
	}
	if tailored == nil || job == nil {
		return nil, &Error{Message: "resume and job are required"}
	}

	ctx, meter := withUsageMeter(ctx)
	parts := Parts{Company: previous.Company, SoftSkills: previous.SoftSkills}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parts.Impact = runAnalyzer(gctx, c, KindImpact, tailored, job, c.analyzers.Impact)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.Uniqueness = runAnalyzer(gctx, c, KindUniqueness, tailored, job, c.analyzers.Uniqueness)
		return gctx.Err()
	})
	g.Go(func() error {
		parts.Context = runAnalyzer(gctx, c, KindContext, tailored, job, c.analyzers.Context)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, &Error{Message: "reanalysis cancelled", Cause: err}
	}

	result := Aggregate(tailored.ID, job.ID, parts, c.now())
	result.TokenUsage = meter.sum()
	return result, nil
}

// runAnalyzer runs one capability through the cache. Failures of the analyzer or
// the cache are logged and yield the zero value.
func runAnalyzer[T any](
	ctx context.Context,
	c *Collector,
	kind Kind,
	resume *types.ResumeContent,
	job *types.JobData,
	fn func(context.Context, *types.ResumeContent, *types.JobData) (T, error),
) T {
	var zero T
	if fn == nil {
		return zero
	}
	log := c.logger.With().Str("analysis", string(kind)).Logger()

	var key string
	if c.cache != nil {
		k, err := CacheKey(kind, resume, job)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping analysis cache")
		} else {
			key = k
			var cached T
			hit, err := c.cache.Get(ctx, key, &cached)
			if err != nil {
				log.Warn().Err(err).Msg("Analysis cache read failed")
			} else if hit {
				log.Debug().Str("key", key).Msg("Analysis cache hit")
				return cached
			}
		}
	}

	start := time.Now()
	result, err := fn(ctx, resume, job)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Analyzer failed; leaving result empty")
		return zero
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("Analyzer finished")

	if key != "" {
		if err := c.cache.Set(ctx, key, result); err != nil {
			log.Warn().Err(err).Msg("Analysis cache write failed")
		}
	}
	return result
}
