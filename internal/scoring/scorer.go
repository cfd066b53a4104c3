package scoring

import (
	"math"
	"sort"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Raw score constants
const (
	rarePoints     = 25.0
	uncommonPoints = 15.0
	commonPoints   = 5.0

	// wellKnownCredit is partial credit for a recognizable employer that needs no translation
	wellKnownCredit = 70.0

	weakPoints     = 30.0
	moderatePoints = 65.0
	strongPoints   = 100.0

	maxTopSuggestions = 3
)

// Scorer computes recruiter-readiness scores. It is a pure function of its
// inputs and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer, rejecting weights that do not sum to 1.0
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// DefaultScorer creates a scorer with DefaultWeights. It panics if the
// built-in weights are misconfigured, which can only happen at startup.
func DefaultScorer() *Scorer {
	s, err := NewScorer(DefaultWeights())
	if err != nil {
		panic(err)
	}
	return s
}

// Weights returns the scorer's dimension weights
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the composite and per-dimension scores of an analysis bundle.
// A nil bundle scores zero on every dimension.
func (s *Scorer) Score(analysis *types.PreAnalysisResult) *types.RecruiterReadinessScore {
	if analysis == nil {
		analysis = &types.PreAnalysisResult{}
	}

	raws := map[types.Dimension]float64{
		types.DimensionUniqueness:         UniquenessRaw(analysis.Uniqueness),
		types.DimensionImpact:             ImpactRaw(analysis.Impact),
		types.DimensionContextTranslation: ContextTranslationRaw(analysis.Company),
		types.DimensionCulturalFit:        CulturalFitRaw(analysis.SoftSkills),
		types.DimensionCustomization:      CustomizationRaw(analysis.Context),
	}

	result := &types.RecruiterReadinessScore{TopSuggestions: []types.Suggestion{}}
	total := 0.0
	for _, dim := range types.Dimensions {
		raw := clamp(raws[dim], 0, 100)
		weight := s.weights.For(dim)
		label := Label(int(math.Round(raw)))
		ds := types.DimensionScore{
			Raw:         raw,
			Weighted:    raw * weight,
			Weight:      weight,
			Label:       label,
			Color:       Color(label),
			Suggestions: dimensionSuggestions(dim, raw, analysis),
		}
		total += ds.Weighted
		result.Dimensions.Set(dim, ds)
	}

	result.Composite = int(clamp(math.Round(total), 0, 100))
	result.Label = Label(result.Composite)
	result.TopSuggestions = s.topSuggestions(&result.Dimensions)
	return result
}

// topSuggestions ranks dimensions by potential composite gain (100-raw)*weight,
// highest first, ties in canonical dimension order. Dimensions with no
// possible gain are left out.
func (s *Scorer) topSuggestions(dims *types.DimensionScores) []types.Suggestion {
	suggestions := make([]types.Suggestion, 0, len(types.Dimensions))
	for _, dim := range types.Dimensions {
		ds := dims.Get(dim)
		gain := (100 - ds.Raw) * ds.Weight
		if gain <= 0 {
			continue
		}
		action := fallbackAction(dim)
		if len(ds.Suggestions) > 0 {
			action = ds.Suggestions[0]
		}
		suggestions = append(suggestions, types.Suggestion{
			Dimension:     dim,
			Action:        action,
			Impact:        impactFor(ds.Weight),
			PotentialGain: gain,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PotentialGain > suggestions[j].PotentialGain
	})
	if len(suggestions) > maxTopSuggestions {
		suggestions = suggestions[:maxTopSuggestions]
	}
	return suggestions
}

// UniquenessRaw sums rarity points of all differentiators, capped at 100
func UniquenessRaw(u *types.UniquenessResult) float64 {
	if u == nil {
		return 0
	}
	total := 0.0
	for _, d := range u.Differentiators {
		switch d.Rarity {
		case types.RarityRare:
			total += rarePoints
		case types.RarityUncommon:
			total += uncommonPoints
		case types.RarityCommon:
			total += commonPoints
		}
	}
	return math.Min(total, 100)
}

// ImpactRaw is the percentage of bullets with a quantified outcome
func ImpactRaw(impact *types.ImpactResult) float64 {
	total, quantified := impact.Counts()
	if total <= 0 {
		return 0
	}
	return clamp(100*float64(quantified)/float64(total), 0, 100)
}

// ContextTranslationRaw scores how well past employers are explained to the reader:
// no research scores 0, a well-known employer gets partial credit, an unknown
// employer with generated context scores its research quality (full credit when
// unrated), and an unknown employer without context scores 0.
func ContextTranslationRaw(company *types.CompanyResearchResult) float64 {
	switch {
	case company == nil:
		return 0
	case company.IsWellKnown:
		return wellKnownCredit
	case company.EffectiveContext == "":
		return 0
	case company.ResearchQuality > 0:
		return clamp(company.ResearchQuality, 0, 100)
	default:
		return 100
	}
}

// CulturalFitRaw averages the mapped strength of soft-skill evidence
func CulturalFitRaw(skills []types.SoftSkillAssessment) float64 {
	if len(skills) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range skills {
		switch s.EffectiveStrength() {
		case types.StrengthStrong:
			total += strongPoints
		case types.StrengthModerate:
			total += moderatePoints
		default:
			total += weakPoints
		}
	}
	return total / float64(len(skills))
}

// CustomizationRaw is the résumé-to-job match score
func CustomizationRaw(ctx *types.ContextResult) float64 {
	if ctx == nil {
		return 0
	}
	return clamp(ctx.MatchScore, 0, 100)
}

// Label maps a 0-100 score to its band; each band includes its lower bound
func Label(score int) types.ScoreLabel {
	switch {
	case score >= 90:
		return types.LabelExceptional
	case score >= 75:
		return types.LabelStrong
	case score >= 60:
		return types.LabelGood
	case score >= 40:
		return types.LabelGettingThere
	default:
		return types.LabelNeedsWork
	}
}

// Color returns the display color of a label
func Color(label types.ScoreLabel) string {
	switch label {
	case types.LabelExceptional:
		return "#059669"
	case types.LabelStrong:
		return "#16a34a"
	case types.LabelGood:
		return "#ca8a04"
	case types.LabelGettingThere:
		return "#ea580c"
	default:
		return "#dc2626"
	}
}

func impactFor(weight float64) types.SuggestionImpact {
	switch {
	case weight >= 0.25:
		return types.ImpactHigh
	case weight >= 0.15:
		return types.ImpactMedium
	default:
		return types.ImpactLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Compare reports how a score changed, typically before and after tailoring
func Compare(before, after *types.RecruiterReadinessScore) *types.ScoreComparison {
	if before == nil {
		before = &types.RecruiterReadinessScore{Label: types.LabelNeedsWork}
	}
	if after == nil {
		after = &types.RecruiterReadinessScore{Label: types.LabelNeedsWork}
	}
	cmp := &types.ScoreComparison{
		Before:         before.Composite,
		After:          after.Composite,
		Delta:          after.Composite - before.Composite,
		BeforeLabel:    before.Label,
		AfterLabel:     after.Label,
		DimensionDelta: make([]types.DimensionComparison, 0, len(types.Dimensions)),
	}
	for _, dim := range types.Dimensions {
		b, a := before.Dimensions.Get(dim).Raw, after.Dimensions.Get(dim).Raw
		cmp.DimensionDelta = append(cmp.DimensionDelta, types.DimensionComparison{
			Dimension: dim,
			Before:    b,
			After:     a,
			Delta:     a - b,
		})
	}
	return cmp
}
