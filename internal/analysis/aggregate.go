package analysis

import (
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Parts holds the individual sub-analysis results to bundle. Any of them may be nil.
type Parts struct {
	Impact     *types.ImpactResult
	Uniqueness *types.UniquenessResult
	Context    *types.ContextResult
	Company    *types.CompanyResearchResult
	SoftSkills []types.SoftSkillAssessment
}

// Aggregate bundles sub-analysis results into a PreAnalysisResult. The bundle
// holds deep copies, so later changes to parts do not leak into it.
func Aggregate(resumeID, jobID string, parts Parts, analyzedAt time.Time) *types.PreAnalysisResult {
	return &types.PreAnalysisResult{
		Impact:     cloneImpact(parts.Impact),
		Uniqueness: cloneUniqueness(parts.Uniqueness),
		Context:    cloneContext(parts.Context),
		Company:    cloneCompany(parts.Company),
		SoftSkills: cloneSoftSkills(parts.SoftSkills),
		AnalyzedAt: analyzedAt.UTC(),
		ResumeID:   resumeID,
		JobID:      jobID,
	}
}

// PartsOf splits a bundle back into its parts
func PartsOf(a *types.PreAnalysisResult) Parts {
	if a == nil {
		return Parts{}
	}
	return Parts{
		Impact:     a.Impact,
		Uniqueness: a.Uniqueness,
		Context:    a.Context,
		Company:    a.Company,
		SoftSkills: a.SoftSkills,
	}
}

func cloneImpact(r *types.ImpactResult) *types.ImpactResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Bullets = make([]types.BulletImpact, len(r.Bullets))
	for i, b := range r.Bullets {
		b.SuggestedMetrics = cloneStrings(b.SuggestedMetrics)
		out.Bullets[i] = b
	}
	return &out
}

func cloneUniqueness(r *types.UniquenessResult) *types.UniquenessResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Differentiators = make([]types.Differentiator, len(r.Differentiators))
	for i, d := range r.Differentiators {
		d.BulletIDs = cloneStrings(d.BulletIDs)
		d.ExperienceIDs = cloneStrings(d.ExperienceIDs)
		out.Differentiators[i] = d
	}
	out.RareSkills = cloneStrings(r.RareSkills)
	return &out
}

func cloneContext(r *types.ContextResult) *types.ContextResult {
	if r == nil {
		return nil
	}
	out := *r
	out.MatchedKeywords = cloneStrings(r.MatchedKeywords)
	out.MissingKeywords = cloneStrings(r.MissingKeywords)
	if r.ExperienceRelevance != nil {
		out.ExperienceRelevance = make([]types.ExperienceRelevance, len(r.ExperienceRelevance))
		for i, er := range r.ExperienceRelevance {
			er.MatchedKeywords = cloneStrings(er.MatchedKeywords)
			out.ExperienceRelevance[i] = er
		}
	}
	if r.BulletRelevance != nil {
		out.BulletRelevance = make([]types.BulletRelevance, len(r.BulletRelevance))
		for i, br := range r.BulletRelevance {
			br.MissingKeywords = cloneStrings(br.MissingKeywords)
			out.BulletRelevance[i] = br
		}
	}
	return &out
}

func cloneCompany(r *types.CompanyResearchResult) *types.CompanyResearchResult {
	if r == nil {
		return nil
	}
	out := *r
	out.ExperienceIDs = cloneStrings(r.ExperienceIDs)
	out.CultureValues = cloneStrings(r.CultureValues)
	return &out
}

func cloneSoftSkills(skills []types.SoftSkillAssessment) []types.SoftSkillAssessment {
	out := make([]types.SoftSkillAssessment, len(skills))
	for i, s := range skills {
		s.BulletIDs = cloneStrings(s.BulletIDs)
		out[i] = s
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
