// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Dimension names one of the five recruiter-readiness dimensions
type Dimension string

// Dimensions in canonical order
const (
	DimensionUniqueness         Dimension = "uniqueness"
	DimensionImpact             Dimension = "impact"
	DimensionContextTranslation Dimension = "contextTranslation"
	DimensionCulturalFit        Dimension = "culturalFit"
	DimensionCustomization      Dimension = "customization"
)

// Dimensions lists every dimension in canonical order
var Dimensions = []Dimension{
	DimensionUniqueness,
	DimensionImpact,
	DimensionContextTranslation,
	DimensionCulturalFit,
	DimensionCustomization,
}

// ScoreLabel is the band a score falls into
type ScoreLabel string

// Score labels
const (
	LabelNeedsWork    ScoreLabel = "needs_work"
	LabelGettingThere ScoreLabel = "getting_there"
	LabelGood         ScoreLabel = "good"
	LabelStrong       ScoreLabel = "strong"
	LabelExceptional  ScoreLabel = "exceptional"
)

// SuggestionImpact classifies how much a suggestion can move the composite
type SuggestionImpact string

// Suggestion impacts
const (
	ImpactHigh   SuggestionImpact = "high"
	ImpactMedium SuggestionImpact = "medium"
	ImpactLow    SuggestionImpact = "low"
)

// RecruiterReadinessScore is the weighted composite across all dimensions
type RecruiterReadinessScore struct {
	Composite      int             `json:"composite"`
	Label          ScoreLabel      `json:"label"`
	Dimensions     DimensionScores `json:"dimensions"`
	TopSuggestions []Suggestion    `json:"topSuggestions"`
}

// DimensionScores holds one score per dimension
type DimensionScores struct {
	Uniqueness         DimensionScore `json:"uniqueness"`
	Impact             DimensionScore `json:"impact"`
	ContextTranslation DimensionScore `json:"contextTranslation"`
	CulturalFit        DimensionScore `json:"culturalFit"`
	Customization      DimensionScore `json:"customization"`
}

// Get returns the score for a dimension
func (d *DimensionScores) Get(dim Dimension) DimensionScore {
	switch dim {
	case DimensionUniqueness:
		return d.Uniqueness
	case DimensionImpact:
		return d.Impact
	case DimensionContextTranslation:
		return d.ContextTranslation
	case DimensionCulturalFit:
		return d.CulturalFit
	case DimensionCustomization:
		return d.Customization
	}
	return DimensionScore{}
}

// Set stores the score for a dimension
func (d *DimensionScores) Set(dim Dimension, score DimensionScore) {
	switch dim {
	case DimensionUniqueness:
		d.Uniqueness = score
	case DimensionImpact:
		d.Impact = score
	case DimensionContextTranslation:
		d.ContextTranslation = score
	case DimensionCulturalFit:
		d.CulturalFit = score
	case DimensionCustomization:
		d.Customization = score
	}
}

// DimensionScore is the score of a single dimension
type DimensionScore struct {
	Raw         float64    `json:"raw"`
	Weighted    float64    `json:"weighted"`
	Weight      float64    `json:"weight"`
	Label       ScoreLabel `json:"label"`
	Color       string     `json:"color"`
	Suggestions []string   `json:"suggestions"`
}

// Suggestion is one actionable improvement ranked by potential gain
type Suggestion struct {
	Dimension     Dimension        `json:"dimension"`
	Action        string           `json:"action"`
	Impact        SuggestionImpact `json:"impact"`
	PotentialGain float64          `json:"potentialGain"`
}

// ScoreComparison contrasts two scores of the same résumé, typically before and after tailoring
type ScoreComparison struct {
	Before         int                   `json:"before"`
	After          int                   `json:"after"`
	Delta          int                   `json:"delta"`
	BeforeLabel    ScoreLabel            `json:"beforeLabel"`
	AfterLabel     ScoreLabel            `json:"afterLabel"`
	DimensionDelta []DimensionComparison `json:"dimensionDeltas"`
}

// DimensionComparison is the before/after raw score of one dimension
type DimensionComparison struct {
	Dimension Dimension `json:"dimension"`
	Before    float64   `json:"before"`
	After     float64   `json:"after"`
	Delta     float64   `json:"delta"`
}
