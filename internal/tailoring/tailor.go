package tailoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// DefaultRewriteTimeout bounds a single rewrite call
const DefaultRewriteTimeout = 2 * time.Minute

// Rewriter is the external capability that turns instructions into new text
type Rewriter interface {
	Rewrite(ctx context.Context, req *types.RewriteRequest) (*types.RewriteResponse, error)
}

// RewriterFunc adapts a function to the Rewriter interface
type RewriterFunc func(ctx context.Context, req *types.RewriteRequest) (*types.RewriteResponse, error)

// Rewrite calls f(ctx, req)
func (f RewriterFunc) Rewrite(ctx context.Context, req *types.RewriteRequest) (*types.RewriteResponse, error) {
	return f(ctx, req)
}

// Config wires the pipeline components. Engine, Collector and Rewriter are required.
type Config struct {
	Engine         *rules.Engine
	Collector      *analysis.Collector
	Rewriter       Rewriter
	Compiler       *compiler.Compiler
	Scorer         *scoring.Scorer
	Logger         zerolog.Logger
	RewriteTimeout time.Duration
	Clock          func() time.Time
}

// Request is one tailoring invocation. PreAnalysis is collected when nil.
type Request struct {
	Resume      *types.ResumeContent     `json:"resume"`
	Job         *types.JobData           `json:"job"`
	PreAnalysis *types.PreAnalysisResult `json:"preAnalysis,omitempty"`
}

// Tailor runs tailoring requests. It holds no per-request state, so one
// instance serves concurrent requests.
type Tailor struct {
	engine         *rules.Engine
	collector      *analysis.Collector
	rewriter       Rewriter
	compiler       *compiler.Compiler
	scorer         *scoring.Scorer
	logger         zerolog.Logger
	rewriteTimeout time.Duration
	now            func() time.Time
}

// New creates a Tailor, filling optional components with defaults
func New(cfg Config) (*Tailor, error) {
	switch {
	case cfg.Engine == nil:
		return nil, &Error{Stage: StageValidate, Message: "rule engine is required"}
	case cfg.Collector == nil:
		return nil, &Error{Stage: StageValidate, Message: "analysis collector is required"}
	case cfg.Rewriter == nil:
		return nil, &Error{Stage: StageValidate, Message: "rewriter is required"}
	}

	t := &Tailor{
		engine:         cfg.Engine,
		collector:      cfg.Collector,
		rewriter:       cfg.Rewriter,
		compiler:       cfg.Compiler,
		scorer:         cfg.Scorer,
		logger:         cfg.Logger.With().Str("component", "tailoring").Logger(),
		rewriteTimeout: cfg.RewriteTimeout,
		now:            cfg.Clock,
	}
	if t.compiler == nil {
		t.compiler = compiler.New(cfg.Logger)
	}
	if t.scorer == nil {
		t.scorer = scoring.DefaultScorer()
	}
	if t.rewriteTimeout <= 0 {
		t.rewriteTimeout = DefaultRewriteTimeout
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t, nil
}

// Run executes the pipeline for one résumé and job. The inputs are never
// modified; the result carries the tailored copy and the full audit trail.
func (t *Tailor) Run(ctx context.Context, req Request) (*types.HybridTailorResult, error) {
	start := t.now()

	if req.Resume == nil || req.Job == nil {
		return nil, &Error{Stage: StageValidate, Message: "resume and job are required"}
	}
	if err := req.Resume.Validate(); err != nil {
		return nil, &Error{Stage: StageValidate, Message: "invalid resume", Cause: err}
	}
	if err := req.Job.Validate(); err != nil {
		return nil, &Error{Stage: StageValidate, Message: "invalid job", Cause: err}
	}
	resume, job := req.Resume.Clone(), req.Job
	log := t.logger.With().Str("resume_id", resume.ID).Str("job_id", job.ID).Logger()

	pre := req.PreAnalysis
	if pre == nil {
		var err error
		pre, err = t.collector.Collect(ctx, resume, job)
		if err != nil {
			return nil, &Error{Stage: StageAnalyze, Message: "failed to collect pre-analysis", Cause: err}
		}
	} else {
		resumeID, jobID, err := bundleIDs(pre, resume, job)
		if err != nil {
			return nil, err
		}
		pre = analysis.Aggregate(resumeID, jobID, analysis.PartsOf(pre), pre.AnalyzedAt)
	}
	baseline := t.scorer.Score(pre)

	matched, instructions, err := t.Prepare(pre, resume, job)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("matched_rules", len(matched)).Int("bullet_instructions", len(instructions.Bullets)).Msg("Instructions compiled")

	rewriteCtx, cancel := context.WithTimeout(ctx, t.rewriteTimeout)
	defer cancel()
	response, err := t.rewriter.Rewrite(rewriteCtx, &types.RewriteRequest{
		Resume:       resume.Clone(),
		Job:          job,
		Instructions: instructions,
	})
	if err != nil {
		return nil, &Error{Stage: StageRewrite, Message: "rewrite failed", Cause: err}
	}
	if response == nil {
		return nil, &Error{Stage: StageRewrite, Message: "rewriter returned no response"}
	}

	tailored, dropped := ApplyRewrite(resume, instructions, response)
	for _, id := range dropped {
		log.Warn().Str("bullet_id", id).Msg("Dropped rewrite for bullet without instruction")
	}
	changes := DiffResumes(resume, tailored)

	post, err := t.collector.Reanalyze(ctx, tailored, job, pre)
	if err != nil {
		return nil, &Error{Stage: StageReanalyze, Message: "failed to analyze tailored resume", Cause: err}
	}
	quality := t.scorer.Score(post)

	var whyFit string
	if instructions.WhyFit.Generate {
		whyFit = response.WhyFit
	}

	end := t.now()
	log.Info().
		Int("baseline", baseline.Composite).
		Int("quality", quality.Composite).
		Int("changes", changes.TotalChanges).
		Dur("elapsed", end.Sub(start)).
		Msg("Tailoring complete")

	return &types.HybridTailorResult{
		TailoredResume:   tailored,
		PreAnalysis:      pre,
		PostAnalysis:     post,
		AppliedRules:     matched,
		Instructions:     instructions,
		Changes:          changes,
		WhyFit:           whyFit,
		BaselineScore:    baseline,
		QualityScore:     quality,
		TokenUsage:       pre.TokenUsage.Add(response.TokenUsage).Add(post.TokenUsage),
		TailoredAt:       end.UTC(),
		ProcessingTimeMs: end.Sub(start).Milliseconds(),
	}, nil
}

// Prepare runs the deterministic half of the pipeline: evaluate rules and
// compile instructions for an existing analysis bundle.
func (t *Tailor) Prepare(analysisResult *types.PreAnalysisResult, resume *types.ResumeContent, job *types.JobData) ([]types.RuleEvaluationResult, *types.TransformationInstructions, error) {
	matched := t.engine.Evaluate(rules.Input{Analysis: analysisResult, Resume: resume, Job: job})
	instructions, err := t.compiler.Compile(matched, analysisResult, resume, job)
	if err != nil {
		return nil, nil, &Error{Stage: StageCompile, Message: "failed to compile instructions", Cause: err}
	}
	return matched, instructions, nil
}

// bundleIDs resolves the IDs of a supplied analysis bundle. Missing IDs are
// taken from the request; IDs naming another résumé or job are rejected.
func bundleIDs(pre *types.PreAnalysisResult, resume *types.ResumeContent, job *types.JobData) (string, string, error) {
	resumeID, jobID := pre.ResumeID, pre.JobID
	if resumeID == "" {
		resumeID = resume.ID
	}
	if jobID == "" {
		jobID = job.ID
	}
	if resumeID != resume.ID {
		return "", "", &Error{Stage: StageValidate, Message: fmt.Sprintf("pre-analysis is for resume %q, not %q", resumeID, resume.ID)}
	}
	if jobID != job.ID {
		return "", "", &Error{Stage: StageValidate, Message: fmt.Sprintf("pre-analysis is for job %q, not %q", jobID, job.ID)}
	}
	return resumeID, jobID, nil
}
