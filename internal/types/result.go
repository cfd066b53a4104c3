// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// TokenUsage counts LLM tokens spent on a run
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Add returns the sum of two usages
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// TailoringChanges summarizes what the pipeline actually changed
type TailoringChanges struct {
	BulletsModified   int            `json:"bulletsModified"`
	BulletsUnchanged  int            `json:"bulletsUnchanged"`
	Bullets           []BulletChange `json:"bullets"`
	SummaryChanged    bool           `json:"summaryChanged"`
	Summary           *TextChange    `json:"summary,omitempty"`
	SkillsReordered   bool           `json:"skillsReordered"`
	Skills            *ListChange    `json:"skills,omitempty"`
	ExperienceReorder bool           `json:"experienceReordered"`
	Experiences       *ListChange    `json:"experiences,omitempty"`
	TotalChanges      int            `json:"totalChanges"`
}

// BulletChange is the before/after text of one rewritten bullet
type BulletChange struct {
	BulletID     string `json:"bulletId"`
	ExperienceID string `json:"experienceId"`
	Before       string `json:"before"`
	After        string `json:"after"`
}

// TextChange is a before/after pair for a free-text section
type TextChange struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// ListChange is a before/after pair for an ordered list
type ListChange struct {
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// HybridTailorResult is the full audit trail of one tailoring run
type HybridTailorResult struct {
	TailoredResume   *ResumeContent              `json:"tailoredResume"`
	PreAnalysis      *PreAnalysisResult          `json:"preAnalysis"`
	PostAnalysis     *PreAnalysisResult          `json:"postAnalysis,omitempty"`
	AppliedRules     []RuleEvaluationResult      `json:"appliedRules"`
	Instructions     *TransformationInstructions `json:"instructions"`
	Changes          TailoringChanges            `json:"changes"`
	WhyFit           string                      `json:"whyFit,omitempty"`
	BaselineScore    *RecruiterReadinessScore    `json:"baselineScore"`
	QualityScore     *RecruiterReadinessScore    `json:"qualityScore"`
	TokenUsage       TokenUsage                  `json:"tokenUsage"`
	TailoredAt       time.Time                   `json:"tailoredAt"`
	ProcessingTimeMs int64                       `json:"processingTimeMs"`
}
