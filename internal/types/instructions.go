// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ImprovementLevel classifies how much a bullet will change
type ImprovementLevel string

// Improvement levels
const (
	ImprovementNone        ImprovementLevel = "none"
	ImprovementMinor       ImprovementLevel = "minor"
	ImprovementMajor       ImprovementLevel = "major"
	ImprovementTransformed ImprovementLevel = "transformed"
)

// ImprovementLevelFor maps the number of active enhancement categories to a level:
// 0 none, 1 minor, 2 major, 3 or more transformed.
func ImprovementLevelFor(activeCategories int) ImprovementLevel {
	switch {
	case activeCategories <= 0:
		return ImprovementNone
	case activeCategories == 1:
		return ImprovementMinor
	case activeCategories == 2:
		return ImprovementMajor
	default:
		return ImprovementTransformed
	}
}

// TransformationInstructions is the compiled, résumé-specific payload handed to the rewriting step
type TransformationInstructions struct {
	Bullets         []BulletTransformInstruction `json:"bullets"`
	Summary         SummaryTransformInstruction  `json:"summary"`
	WhyFit          WhyFitInstruction            `json:"whyFit"`
	Skills          SkillsReorderInstruction     `json:"skills"`
	ExperienceOrder ExperienceReorderInstruction `json:"experienceOrder"`
	AppliedRules    []string                     `json:"appliedRules"`
	OverallTone     StrategicTone                `json:"overallTone"`
}

// BulletTransformInstruction is the edit directive for one bullet
type BulletTransformInstruction struct {
	BulletID     string `json:"bulletId"`
	ExperienceID string `json:"experienceId"`
	OriginalText string `json:"originalText"`

	AddMetrics       bool     `json:"addMetrics"`
	SuggestedMetrics []string `json:"suggestedMetrics"`

	AddKeywords   bool     `json:"addKeywords"`
	KeywordsToAdd []string `json:"keywordsToAdd"`

	AddContext     bool   `json:"addContext"`
	CompanyContext string `json:"companyContext,omitempty"`

	AddSoftSkills     bool     `json:"addSoftSkills"`
	SoftSkillsToWeave []string `json:"softSkillsToWeave"`

	// Emphasize marks a differentiator to lead with; it is not an enhancement category.
	Emphasize       bool     `json:"emphasize"`
	Differentiators []string `json:"differentiators,omitempty"`

	TemplateID         string           `json:"templateId,omitempty"`
	StrategicTone      StrategicTone    `json:"strategicTone"`
	PreserveMeaning    bool             `json:"preserveMeaning"`
	ImprovementLevel   ImprovementLevel `json:"improvementLevel"`
	RewriteInstruction string           `json:"rewriteInstruction"`
	SourceRules        []string         `json:"sourceRules"`
}

// ActiveCategories counts the enhancement categories switched on for the bullet
func (b *BulletTransformInstruction) ActiveCategories() int {
	count := 0
	for _, on := range []bool{b.AddMetrics, b.AddKeywords, b.AddContext, b.AddSoftSkills} {
		if on {
			count++
		}
	}
	return count
}

// SummaryTransformInstruction directs the rewrite of the professional summary
type SummaryTransformInstruction struct {
	Rewrite            bool          `json:"rewrite"`
	OriginalText       string        `json:"originalText,omitempty"`
	KeywordsToAdd      []string      `json:"keywordsToAdd"`
	Differentiators    []string      `json:"differentiators"`
	SoftSkillsToWeave  []string      `json:"softSkillsToWeave"`
	StrategicTone      StrategicTone `json:"strategicTone,omitempty"`
	RewriteInstruction string        `json:"rewriteInstruction,omitempty"`
}

// WhyFitInstruction directs the generation of a short "why I fit" statement
type WhyFitInstruction struct {
	Generate         bool          `json:"generate"`
	JobTitle         string        `json:"jobTitle,omitempty"`
	CompanyName      string        `json:"companyName,omitempty"`
	KeyPoints        []string      `json:"keyPoints"`
	StrategicTone    StrategicTone `json:"strategicTone,omitempty"`
	GenerationPrompt string        `json:"generationPrompt,omitempty"`
}

// SkillsReorderInstruction carries the stable partition of technical skills
type SkillsReorderInstruction struct {
	Reorder      bool     `json:"reorder"`
	Original     []string `json:"original"`
	Reordered    []string `json:"reordered"`
	MatchedFirst []string `json:"matchedFirst"`
	ToAdd        []string `json:"toAdd"`
}

// ExperienceReorderInstruction suggests an order of experiences by relevance.
// It is a suggestion only; the compiler never reorders the résumé itself.
type ExperienceReorderInstruction struct {
	Reorder       bool                  `json:"reorder"`
	OriginalOrder []string              `json:"originalOrder"`
	NewOrder      []string              `json:"newOrder"`
	Scores        []ExperienceRelevance `json:"scores"`
}
