// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Rarity classifies how uncommon a differentiator is among candidates for the role
type Rarity string

// Rarity values
const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// SkillStrength is the mapped strength of soft-skill evidence
type SkillStrength string

// SkillStrength values
const (
	StrengthWeak     SkillStrength = "weak"
	StrengthModerate SkillStrength = "moderate"
	StrengthStrong   SkillStrength = "strong"
)

// ImpactResult is the output of the impact-quantification analysis
type ImpactResult struct {
	Bullets           []BulletImpact `json:"bullets"`
	TotalBullets      int            `json:"totalBullets"`
	QuantifiedBullets int            `json:"quantifiedBullets"`
	Summary           string         `json:"summary,omitempty"`
}

// BulletImpact is the impact assessment of a single bullet
type BulletImpact struct {
	BulletID     string `json:"bulletId"`
	ExperienceID string `json:"experienceId"`
	OriginalText string `json:"originalText,omitempty"`
	HasMetrics   bool   `json:"hasMetrics"`
	// ImpactLevel runs from 1 (no measurable outcome) to 5 (strongly quantified outcome)
	ImpactLevel      int      `json:"impactLevel"`
	SuggestedMetrics []string `json:"suggestedMetrics,omitempty"`
}

// UniquenessResult is the output of the uniqueness-detection analysis
type UniquenessResult struct {
	Score           float64          `json:"score"`
	Differentiators []Differentiator `json:"differentiators"`
	RareSkills      []string         `json:"rareSkills,omitempty"`
	Summary         string           `json:"summary,omitempty"`
}

// Differentiator is something that sets the candidate apart
type Differentiator struct {
	Text          string   `json:"text"`
	Rarity        Rarity   `json:"rarity"`
	Category      string   `json:"category,omitempty"`
	BulletIDs     []string `json:"bulletIds,omitempty"`
	ExperienceIDs []string `json:"experienceIds,omitempty"`
}

// ContextResult is the output of the résumé-to-job context matching analysis
type ContextResult struct {
	MatchScore          float64               `json:"matchScore"`
	MatchedKeywords     []string              `json:"matchedKeywords"`
	MissingKeywords     []string              `json:"missingKeywords"`
	ExperienceRelevance []ExperienceRelevance `json:"experienceRelevance,omitempty"`
	BulletRelevance     []BulletRelevance     `json:"bulletRelevance,omitempty"`
}

// ExperienceRelevance scores one experience against the job (0-100)
type ExperienceRelevance struct {
	ExperienceID    string   `json:"experienceId"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

// BulletRelevance scores one bullet against the job (0-100)
type BulletRelevance struct {
	BulletID        string   `json:"bulletId"`
	ExperienceID    string   `json:"experienceId"`
	Score           float64  `json:"score"`
	MissingKeywords []string `json:"missingKeywords,omitempty"`
}

// CompanyResearchResult describes a past employer for a reader unfamiliar with it
type CompanyResearchResult struct {
	CompanyName      string   `json:"companyName"`
	IsWellKnown      bool     `json:"isWellKnown"`
	Industry         string   `json:"industry,omitempty"`
	Size             string   `json:"size,omitempty"`
	Description      string   `json:"description,omitempty"`
	EffectiveContext string   `json:"effectiveContext,omitempty"`
	ResearchQuality  float64  `json:"researchQuality,omitempty"` // 0-100
	ExperienceIDs    []string `json:"experienceIds,omitempty"`
	CultureValues    []string `json:"cultureValues,omitempty"`
}

// SoftSkillAssessment is the outcome of a conversational soft-skills assessment
type SoftSkillAssessment struct {
	Skill         string        `json:"skill"`
	EvidenceScore int           `json:"evidenceScore"` // 1-5
	Strength      SkillStrength `json:"strength,omitempty"`
	Evidence      string        `json:"evidence,omitempty"`
	BulletIDs     []string      `json:"bulletIds,omitempty"`
}

// EffectiveStrength returns Strength, deriving it from EvidenceScore when unset.
func (s SoftSkillAssessment) EffectiveStrength() SkillStrength {
	switch s.Strength {
	case StrengthWeak, StrengthModerate, StrengthStrong:
		return s.Strength
	}
	switch {
	case s.EvidenceScore >= 4:
		return StrengthStrong
	case s.EvidenceScore == 3:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// PreAnalysisResult bundles every sub-analysis for one tailoring request.
// A nil sub-result means the analysis was not available. TokenUsage counts
// the tokens spent producing this bundle; cached results cost nothing.
type PreAnalysisResult struct {
	Impact     *ImpactResult          `json:"impact"`
	Uniqueness *UniquenessResult      `json:"uniqueness"`
	Context    *ContextResult         `json:"context"`
	Company    *CompanyResearchResult `json:"company"`
	SoftSkills []SoftSkillAssessment  `json:"softSkills"`
	AnalyzedAt time.Time              `json:"analyzedAt"`
	ResumeID   string                 `json:"resumeId"`
	JobID      string                 `json:"jobId"`
	TokenUsage TokenUsage             `json:"tokenUsage"`
}

// Counts returns total and quantified bullet counts, preferring per-bullet
// assessments over the summary counters when both are present.
func (r *ImpactResult) Counts() (total, quantified int) {
	if r == nil {
		return 0, 0
	}
	if len(r.Bullets) > 0 {
		for _, b := range r.Bullets {
			if b.HasMetrics {
				quantified++
			}
		}
		return len(r.Bullets), quantified
	}
	return r.TotalBullets, r.QuantifiedBullets
}
