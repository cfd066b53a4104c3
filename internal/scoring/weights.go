package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-tailor/internal/types"
)

const weightTolerance = 1e-9

// Weights are the fixed per-dimension weights of the composite score
type Weights struct {
	Uniqueness         float64 `json:"uniqueness" mapstructure:"uniqueness"`
	Impact             float64 `json:"impact" mapstructure:"impact"`
	ContextTranslation float64 `json:"contextTranslation" mapstructure:"context_translation"`
	CulturalFit        float64 `json:"culturalFit" mapstructure:"cultural_fit"`
	Customization      float64 `json:"customization" mapstructure:"customization"`
}

// DefaultWeights returns the standard weighting: impact and customization dominate
func DefaultWeights() Weights {
	return Weights{
		Uniqueness:         0.20,
		Impact:             0.30,
		ContextTranslation: 0.15,
		CulturalFit:        0.10,
		Customization:      0.25,
	}
}

// For returns the weight of a dimension
func (w Weights) For(dim types.Dimension) float64 {
	switch dim {
	case types.DimensionUniqueness:
		return w.Uniqueness
	case types.DimensionImpact:
		return w.Impact
	case types.DimensionContextTranslation:
		return w.ContextTranslation
	case types.DimensionCulturalFit:
		return w.CulturalFit
	case types.DimensionCustomization:
		return w.Customization
	}
	return 0
}

// Sum adds up all dimension weights
func (w Weights) Sum() float64 {
	sum := 0.0
	for _, dim := range types.Dimensions {
		sum += w.For(dim)
	}
	return sum
}

// Validate checks that each weight is within [0,1] and that they sum to 1
func (w Weights) Validate() error {
	sum := w.Sum()
	for _, dim := range types.Dimensions {
		if v := w.For(dim); v < 0 || v > 1 || math.IsNaN(v) {
			return &WeightsError{Sum: sum, Message: fmt.Sprintf("%s weight %.4f is outside [0,1]", dim, v)}
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &WeightsError{Sum: sum, Message: "weights must sum to 1.0"}
	}
	return nil
}
