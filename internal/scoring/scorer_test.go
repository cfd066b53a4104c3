package scoring

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis() *types.PreAnalysisResult {
	return &types.PreAnalysisResult{
		ResumeID: "resume_001",
		JobID:    "job_001",
		Uniqueness: &types.UniquenessResult{
			Differentiators: []types.Differentiator{
				{Text: "Built a card network from scratch", Rarity: types.RarityRare},
				{Text: "Led PCI audit", Rarity: types.RarityUncommon},
			},
			RareSkills: []string{"ISO 8583"},
		},
		Impact: &types.ImpactResult{
			Bullets: []types.BulletImpact{
				{BulletID: "b1", HasMetrics: true, ImpactLevel: 4},
				{BulletID: "b2", ImpactLevel: 2, SuggestedMetrics: []string{"latency"}},
				{BulletID: "b3", ImpactLevel: 1},
				{BulletID: "b4", ImpactLevel: 1},
			},
		},
		Company: &types.CompanyResearchResult{
			CompanyName:      "Stone",
			EffectiveContext: "a Brazilian payments processor serving 2M merchants",
			ResearchQuality:  80,
		},
		SoftSkills: []types.SoftSkillAssessment{
			{Skill: "leadership", EvidenceScore: 5},
			{Skill: "communication", EvidenceScore: 2},
		},
		Context: &types.ContextResult{
			MatchScore:      52,
			MatchedKeywords: []string{"go"},
			MissingKeywords: []string{"kubernetes", "grpc"},
		},
	}
}

func impactAnalysis(total, quantified int) *types.PreAnalysisResult {
	bullets := make([]types.BulletImpact, total)
	for i := range bullets {
		bullets[i] = types.BulletImpact{BulletID: string(rune('a' + i)), HasMetrics: i < quantified}
	}
	return &types.PreAnalysisResult{Impact: &types.ImpactResult{Bullets: bullets}}
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	require.NoError(t, w.Validate())

	assert.Equal(t, 0.20, w.For(types.DimensionUniqueness))
	assert.Equal(t, 0.30, w.For(types.DimensionImpact))
	assert.Equal(t, 0.15, w.For(types.DimensionContextTranslation))
	assert.Equal(t, 0.10, w.For(types.DimensionCulturalFit))
	assert.Equal(t, 0.25, w.For(types.DimensionCustomization))
}

func TestNewScorer_RejectsBadWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
	}{
		{"sum too low", Weights{Uniqueness: 0.2, Impact: 0.2, ContextTranslation: 0.2, CulturalFit: 0.2, Customization: 0.1}},
		{"sum too high", Weights{Uniqueness: 0.5, Impact: 0.5, ContextTranslation: 0.1}},
		{"negative weight", Weights{Uniqueness: -0.2, Impact: 0.6, ContextTranslation: 0.2, CulturalFit: 0.2, Customization: 0.2}},
		{"zero weights", Weights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScorer(tt.weights)
			require.Error(t, err)
			assert.Nil(t, s)

			var werr *WeightsError
			require.ErrorAs(t, err, &werr)
		})
	}
}

func TestDefaultScorer(t *testing.T) {
	assert.NotPanics(t, func() {
		s := DefaultScorer()
		assert.Equal(t, DefaultWeights(), s.Weights())
	})
}

func TestLabel_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  types.ScoreLabel
	}{
		{0, types.LabelNeedsWork},
		{39, types.LabelNeedsWork},
		{40, types.LabelGettingThere},
		{59, types.LabelGettingThere},
		{60, types.LabelGood},
		{74, types.LabelGood},
		{75, types.LabelStrong},
		{89, types.LabelStrong},
		{90, types.LabelExceptional},
		{100, types.LabelExceptional},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %d", tt.score)
	}
}

func TestColor_DistinctPerLabel(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range []types.ScoreLabel{
		types.LabelNeedsWork, types.LabelGettingThere, types.LabelGood, types.LabelStrong, types.LabelExceptional,
	} {
		c := Color(l)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
		assert.False(t, seen[c], "duplicate color %s", c)
		seen[c] = true
	}
}

func TestScore_Sample(t *testing.T) {
	score := DefaultScorer().Score(sampleAnalysis())

	assert.InDelta(t, 40, score.Dimensions.Uniqueness.Raw, 1e-9)
	assert.InDelta(t, 25, score.Dimensions.Impact.Raw, 1e-9)
	assert.InDelta(t, 80, score.Dimensions.ContextTranslation.Raw, 1e-9)
	assert.InDelta(t, 65, score.Dimensions.CulturalFit.Raw, 1e-9)
	assert.InDelta(t, 52, score.Dimensions.Customization.Raw, 1e-9)

	assert.InDelta(t, 7.5, score.Dimensions.Impact.Weighted, 1e-9)
	assert.Equal(t, 0.30, score.Dimensions.Impact.Weight)

	// 8 + 7.5 + 12 + 6.5 + 13
	assert.Equal(t, 47, score.Composite)
	assert.Equal(t, types.LabelGettingThere, score.Label)

	assert.Equal(t, types.LabelNeedsWork, score.Dimensions.Impact.Label)
	assert.Equal(t, types.LabelStrong, score.Dimensions.ContextTranslation.Label)
	assert.Equal(t, Color(types.LabelStrong), score.Dimensions.ContextTranslation.Color)
}

func TestScore_TopSuggestions(t *testing.T) {
	score := DefaultScorer().Score(sampleAnalysis())

	require.Len(t, score.TopSuggestions, 3)
	dims := []types.Dimension{}
	for i, s := range score.TopSuggestions {
		dims = append(dims, s.Dimension)
		assert.NotEmpty(t, s.Action)
		if i > 0 {
			assert.GreaterOrEqual(t, score.TopSuggestions[i-1].PotentialGain, s.PotentialGain)
		}
	}
	// uniqueness and customization tie at 12 and keep canonical order
	assert.Equal(t, []types.Dimension{
		types.DimensionImpact, types.DimensionUniqueness, types.DimensionCustomization,
	}, dims)

	assert.InDelta(t, 22.5, score.TopSuggestions[0].PotentialGain, 1e-9)
	assert.Equal(t, types.ImpactHigh, score.TopSuggestions[0].Impact)
	assert.Equal(t, types.ImpactMedium, score.TopSuggestions[1].Impact)
	assert.Equal(t, types.ImpactHigh, score.TopSuggestions[2].Impact)

	assert.Equal(t, "Add metrics to 3 of 4 bullets", score.TopSuggestions[0].Action)
}

func TestScore_PerfectHasNoSuggestions(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Uniqueness: &types.UniquenessResult{Differentiators: []types.Differentiator{
			{Rarity: types.RarityRare}, {Rarity: types.RarityRare}, {Rarity: types.RarityRare},
			{Rarity: types.RarityRare}, {Rarity: types.RarityRare},
		}},
		Impact:     &types.ImpactResult{TotalBullets: 3, QuantifiedBullets: 3},
		Company:    &types.CompanyResearchResult{EffectiveContext: "a regional bank"},
		SoftSkills: []types.SoftSkillAssessment{{Skill: "ownership", Strength: types.StrengthStrong}},
		Context:    &types.ContextResult{MatchScore: 100},
	}

	score := DefaultScorer().Score(analysis)
	assert.Equal(t, 100, score.Composite)
	assert.Equal(t, types.LabelExceptional, score.Label)
	assert.Empty(t, score.TopSuggestions)
	assert.NotNil(t, score.TopSuggestions)
	for _, dim := range types.Dimensions {
		assert.Empty(t, score.Dimensions.Get(dim).Suggestions, dim)
	}
}

func TestScore_EmptyAnalysis(t *testing.T) {
	for _, analysis := range []*types.PreAnalysisResult{nil, {}} {
		score := DefaultScorer().Score(analysis)
		assert.Equal(t, 0, score.Composite)
		assert.Equal(t, types.LabelNeedsWork, score.Label)
		require.Len(t, score.TopSuggestions, 3)
		assert.Equal(t, types.DimensionImpact, score.TopSuggestions[0].Dimension)
		assert.Equal(t, types.DimensionCustomization, score.TopSuggestions[1].Dimension)
		assert.Equal(t, types.DimensionUniqueness, score.TopSuggestions[2].Dimension)
	}
}

func TestScore_ImpactImprovementRaisesComposite(t *testing.T) {
	s := DefaultScorer()
	before := s.Score(impactAnalysis(5, 0))
	after := s.Score(impactAnalysis(5, 3))

	assert.InDelta(t, 0, before.Dimensions.Impact.Raw, 1e-9)
	assert.InDelta(t, 60, after.Dimensions.Impact.Raw, 1e-9)
	assert.Greater(t, after.Composite, before.Composite)
	assert.Equal(t, 18, after.Composite-before.Composite)
}

func TestScore_Deterministic(t *testing.T) {
	s := DefaultScorer()
	first, err := json.Marshal(s.Score(sampleAnalysis()))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := json.Marshal(s.Score(sampleAnalysis()))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestContextTranslationRaw(t *testing.T) {
	tests := []struct {
		name    string
		company *types.CompanyResearchResult
		want    float64
	}{
		{"no research", nil, 0},
		{"well known", &types.CompanyResearchResult{IsWellKnown: true}, 70},
		{"well known with context", &types.CompanyResearchResult{IsWellKnown: true, EffectiveContext: "search engine"}, 70},
		{"unknown without context", &types.CompanyResearchResult{CompanyName: "Acme"}, 0},
		{"unknown with context", &types.CompanyResearchResult{EffectiveContext: "a logistics startup"}, 100},
		{"unknown with rated context", &types.CompanyResearchResult{EffectiveContext: "a logistics startup", ResearchQuality: 55}, 55},
		{"quality above range", &types.CompanyResearchResult{EffectiveContext: "x", ResearchQuality: 140}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContextTranslationRaw(tt.company), 1e-9)
		})
	}
}

func TestUniquenessRaw_Capped(t *testing.T) {
	diffs := make([]types.Differentiator, 6)
	for i := range diffs {
		diffs[i] = types.Differentiator{Rarity: types.RarityRare}
	}
	assert.InDelta(t, 100, UniquenessRaw(&types.UniquenessResult{Differentiators: diffs}), 1e-9)
	assert.InDelta(t, 5, UniquenessRaw(&types.UniquenessResult{Differentiators: []types.Differentiator{{Rarity: types.RarityCommon}}}), 1e-9)
}

func TestCulturalFitRaw(t *testing.T) {
	skills := []types.SoftSkillAssessment{
		{Skill: "a", Strength: types.StrengthWeak},
		{Skill: "b", EvidenceScore: 3},
		{Skill: "c", Strength: types.StrengthStrong},
	}
	assert.InDelta(t, (30.0+65+100)/3, CulturalFitRaw(skills), 1e-9)
	assert.InDelta(t, 0, CulturalFitRaw(nil), 1e-9)
}

func TestCustomizationRaw_Clamped(t *testing.T) {
	assert.InDelta(t, 100, CustomizationRaw(&types.ContextResult{MatchScore: 130}), 1e-9)
	assert.InDelta(t, 0, CustomizationRaw(&types.ContextResult{MatchScore: -5}), 1e-9)
}

func TestCompare(t *testing.T) {
	s := DefaultScorer()
	before := s.Score(impactAnalysis(5, 0))
	after := s.Score(impactAnalysis(5, 5))

	cmp := Compare(before, after)
	assert.Equal(t, before.Composite, cmp.Before)
	assert.Equal(t, after.Composite, cmp.After)
	assert.Equal(t, 30, cmp.Delta)
	assert.Equal(t, types.LabelNeedsWork, cmp.BeforeLabel)
	assert.Equal(t, types.LabelNeedsWork, cmp.AfterLabel)

	require.Len(t, cmp.DimensionDelta, len(types.Dimensions))
	for i, d := range cmp.DimensionDelta {
		assert.Equal(t, types.Dimensions[i], d.Dimension)
	}
	assert.InDelta(t, 100, cmp.DimensionDelta[1].Delta, 1e-9)
	assert.InDelta(t, 0, cmp.DimensionDelta[0].Delta, 1e-9)
}

func TestCompare_NilSides(t *testing.T) {
	after := DefaultScorer().Score(sampleAnalysis())
	cmp := Compare(nil, after)
	assert.Equal(t, 0, cmp.Before)
	assert.Equal(t, after.Composite, cmp.Delta)
}
