// Package scoring computes the recruiter-readiness score of a résumé from its pre-analysis.
package scoring

import "fmt"

// WeightsError reports a dimension weight misconfiguration
type WeightsError struct {
	Sum     float64
	Message string
}

func (e *WeightsError) Error() string {
	return fmt.Sprintf("invalid dimension weights (sum %.4f): %s", e.Sum, e.Message)
}
