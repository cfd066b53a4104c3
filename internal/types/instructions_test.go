//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImprovementLevelFor(t *testing.T) {
	tests := []struct {
		name       string
		instr      BulletTransformInstruction
		wantActive int
		wantLevel  ImprovementLevel
	}{
		{name: "nothing active", wantActive: 0, wantLevel: ImprovementNone},
		{name: "metrics only", instr: BulletTransformInstruction{AddMetrics: true}, wantActive: 1, wantLevel: ImprovementMinor},
		{name: "keywords and context", instr: BulletTransformInstruction{AddKeywords: true, AddContext: true}, wantActive: 2, wantLevel: ImprovementMajor},
		{name: "three categories", instr: BulletTransformInstruction{AddMetrics: true, AddKeywords: true, AddSoftSkills: true}, wantActive: 3, wantLevel: ImprovementTransformed},
		{name: "all four", instr: BulletTransformInstruction{AddMetrics: true, AddKeywords: true, AddContext: true, AddSoftSkills: true}, wantActive: 4, wantLevel: ImprovementTransformed},
		{name: "emphasis is not a category", instr: BulletTransformInstruction{Emphasize: true}, wantActive: 0, wantLevel: ImprovementNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := tt.instr.ActiveCategories()
			assert.Equal(t, tt.wantActive, active)
			assert.Equal(t, tt.wantLevel, ImprovementLevelFor(active))
		})
	}
}

func TestSoftSkillAssessment_EffectiveStrength(t *testing.T) {
	assert.Equal(t, StrengthWeak, SoftSkillAssessment{EvidenceScore: 1}.EffectiveStrength())
	assert.Equal(t, StrengthWeak, SoftSkillAssessment{EvidenceScore: 2}.EffectiveStrength())
	assert.Equal(t, StrengthModerate, SoftSkillAssessment{EvidenceScore: 3}.EffectiveStrength())
	assert.Equal(t, StrengthStrong, SoftSkillAssessment{EvidenceScore: 5}.EffectiveStrength())
	assert.Equal(t, StrengthModerate, SoftSkillAssessment{EvidenceScore: 5, Strength: StrengthModerate}.EffectiveStrength())
}

func TestDimensionScores_GetSet(t *testing.T) {
	var scores DimensionScores
	for i, dim := range Dimensions {
		scores.Set(dim, DimensionScore{Raw: float64(i * 10)})
	}
	for i, dim := range Dimensions {
		assert.Equal(t, float64(i*10), scores.Get(dim).Raw)
	}
	assert.Equal(t, DimensionScore{}, scores.Get(Dimension("bogus")))
}

func TestTokenUsage_Add(t *testing.T) {
	sum := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}.
		Add(TokenUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3})
	assert.Equal(t, TokenUsage{PromptTokens: 11, CompletionTokens: 7, TotalTokens: 18}, sum)
}

func TestRecruiterIssue(t *testing.T) {
	assert.True(t, IssueImpact.IsValid())
	assert.False(t, RecruiterIssue(0).IsValid())
	assert.False(t, RecruiterIssue(6).IsValid())
	assert.Equal(t, "us_context", IssueUSContext.String())
	assert.True(t, ToneHumble.IsValid())
	assert.False(t, StrategicTone("loud").IsValid())
}
