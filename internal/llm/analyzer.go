package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

const analysisPrompts = "analysis.json"

// DefaultMarket is the recruiter market company context is written for
const DefaultMarket = "the United States"

// Analyzer produces the sub-analyses with an LLM
type Analyzer struct {
	client Client
	tier   ModelTier
	market string
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer on the standard model tier
func NewAnalyzer(client Client, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		tier:   TierStandard,
		market: DefaultMarket,
		logger: logger.With().Str("component", "llm_analyzer").Logger(),
	}
}

// Analyzers exposes the analyzer as collector capabilities
func (a *Analyzer) Analyzers() analysis.Analyzers {
	return analysis.Analyzers{
		Impact:     a.Impact,
		Uniqueness: a.Uniqueness,
		Context:    a.Context,
		Company:    a.Company,
		SoftSkills: a.SoftSkills,
	}
}

// Impact rates every bullet for quantified outcomes
func (a *Analyzer) Impact(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.ImpactResult, error) {
	var out types.ImpactResult
	if err := a.run(ctx, "impact", resume, job, &out); err != nil {
		return nil, err
	}

	// keep only bullets of this résumé and recount from them
	index := resume.BulletIndex()
	kept := make([]types.BulletImpact, 0, len(out.Bullets))
	for _, b := range out.Bullets {
		ref, ok := index[b.BulletID]
		if !ok {
			a.logger.Debug().Str("bullet_id", b.BulletID).Msg("Dropping impact for unknown bullet")
			continue
		}
		b.ExperienceID = ref.ExperienceID
		b.OriginalText = resume.Experiences[ref.ExperienceIndex].Bullets[ref.BulletIndex].Text
		kept = append(kept, b)
	}
	out.Bullets = kept
	out.TotalBullets, out.QuantifiedBullets = out.Counts()
	return &out, nil
}

// Uniqueness finds differentiators relative to typical applicants
func (a *Analyzer) Uniqueness(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.UniquenessResult, error) {
	var out types.UniquenessResult
	if err := a.run(ctx, "uniqueness", resume, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Context matches the résumé against the job
func (a *Analyzer) Context(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.ContextResult, error) {
	var out types.ContextResult
	if err := a.run(ctx, "context", resume, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Company researches the candidate's most recent employer
func (a *Analyzer) Company(ctx context.Context, resume *types.ResumeContent, job *types.JobData) (*types.CompanyResearchResult, error) {
	if len(resume.Experiences) == 0 {
		return nil, nil
	}
	var out types.CompanyResearchResult
	if err := a.run(ctx, "company", resume, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SoftSkills assesses soft-skill evidence
func (a *Analyzer) SoftSkills(ctx context.Context, resume *types.ResumeContent, job *types.JobData) ([]types.SoftSkillAssessment, error) {
	var out []types.SoftSkillAssessment
	if err := a.run(ctx, "soft-skills", resume, job, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analyzer) run(ctx context.Context, key string, resume *types.ResumeContent, job *types.JobData, dst any) error {
	template, err := prompts.Get(analysisPrompts, key)
	if err != nil {
		return err
	}
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode resume: %w", err)
	}
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"Resume":   string(resumeJSON),
		"Job":      string(jobJSON),
		"JobTitle": job.Title,
		"Market":   a.market,
	})

	resp, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return fmt.Errorf("%s analysis failed: %w", key, err)
	}
	analysis.ReportUsage(ctx, resp.Usage)
	if err := json.Unmarshal([]byte(CleanJSONBlock(resp.Text)), dst); err != nil {
		return fmt.Errorf("failed to parse %s analysis: %w", key, err)
	}
	a.logger.Debug().Str("analysis", key).Int("total_tokens", resp.Usage.TotalTokens).Msg("Analysis complete")
	return nil
}
