package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// maxDimensionSuggestions caps the suggestions listed under a single dimension
const maxDimensionSuggestions = 3

// dimensionSuggestions returns the templated suggestions for one dimension, most
// useful first. A perfect dimension has none.
func dimensionSuggestions(dim types.Dimension, raw float64, analysis *types.PreAnalysisResult) []string {
	out := []string{}
	if raw >= 100 {
		return out
	}

	switch dim {
	case types.DimensionUniqueness:
		out = uniquenessSuggestions(analysis.Uniqueness)
	case types.DimensionImpact:
		out = impactSuggestions(analysis.Impact)
	case types.DimensionContextTranslation:
		out = contextTranslationSuggestions(analysis.Company)
	case types.DimensionCulturalFit:
		out = culturalFitSuggestions(analysis.SoftSkills)
	case types.DimensionCustomization:
		out = customizationSuggestions(analysis.Context)
	}

	if len(out) > maxDimensionSuggestions {
		out = out[:maxDimensionSuggestions]
	}
	return out
}

// fallbackAction is used for a top suggestion when a dimension produced no template
func fallbackAction(dim types.Dimension) string {
	switch dim {
	case types.DimensionUniqueness:
		return "Highlight what sets your experience apart from other candidates"
	case types.DimensionImpact:
		return "Quantify outcomes with metrics"
	case types.DimensionContextTranslation:
		return "Explain the scale and domain of lesser-known employers"
	case types.DimensionCulturalFit:
		return "Show soft skills through concrete examples"
	default:
		return "Align the résumé more closely with the job description"
	}
}

func uniquenessSuggestions(u *types.UniquenessResult) []string {
	out := []string{}
	if u == nil || len(u.Differentiators) == 0 {
		return append(out, "Identify rare skills or accomplishments and lead with them")
	}
	rare := 0
	for _, d := range u.Differentiators {
		if d.Rarity == types.RarityRare {
			rare++
		}
	}
	if rare == 0 {
		out = append(out, "Surface a rare skill or uncommon accomplishment near the top")
	}
	if len(u.RareSkills) > 0 {
		out = append(out, fmt.Sprintf("Feature %s in your summary", strings.Join(u.RareSkills, ", ")))
	}
	return append(out, "Move differentiating work into the first bullet of each role")
}

func impactSuggestions(impact *types.ImpactResult) []string {
	out := []string{}
	total, quantified := impact.Counts()
	if total == 0 {
		return append(out, "Add achievement bullets with measurable outcomes")
	}
	if missing := total - quantified; missing > 0 {
		out = append(out, fmt.Sprintf("Add metrics to %d of %d bullets", missing, total))
	}
	if impact != nil {
		for _, b := range impact.Bullets {
			if !b.HasMetrics && len(b.SuggestedMetrics) > 0 {
				out = append(out, fmt.Sprintf("Consider measuring %s", strings.Join(b.SuggestedMetrics, ", ")))
				break
			}
		}
	}
	return append(out, "Lead bullets with the result, then the action")
}

func contextTranslationSuggestions(company *types.CompanyResearchResult) []string {
	switch {
	case company == nil:
		return []string{"Describe each employer's industry and scale in one line"}
	case company.IsWellKnown:
		return []string{"Connect your work to the employer's well-known products"}
	case company.EffectiveContext == "":
		return []string{fmt.Sprintf("Explain what %s does and its scale", nonEmpty(company.CompanyName, "each employer"))}
	default:
		return []string{"Strengthen employer context with concrete scale figures"}
	}
}

func culturalFitSuggestions(skills []types.SoftSkillAssessment) []string {
	out := []string{}
	if len(skills) == 0 {
		return append(out, "Show collaboration and leadership through specific examples")
	}
	for _, s := range skills {
		if s.EffectiveStrength() == types.StrengthWeak {
			out = append(out, fmt.Sprintf("Back %s with a concrete example", s.Skill))
		}
	}
	if len(out) == 0 {
		out = append(out, "Tie soft skills to measurable team outcomes")
	}
	return out
}

func customizationSuggestions(ctx *types.ContextResult) []string {
	out := []string{}
	if ctx == nil {
		return append(out, "Align the résumé more closely with the job description")
	}
	if n := len(ctx.MissingKeywords); n > 0 {
		keywords := ctx.MissingKeywords
		if n > 3 {
			keywords = keywords[:3]
		}
		out = append(out, fmt.Sprintf("Work in missing keywords: %s", strings.Join(keywords, ", ")))
	}
	return append(out, "Reorder experience and skills to match the job's priorities")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
