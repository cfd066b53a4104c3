// Package tailoring runs the hybrid tailoring pipeline: analyze, evaluate rules,
// compile instructions, rewrite, and score before and after.
package tailoring

import "fmt"

// Stage names a pipeline step for error reporting
type Stage string

// Pipeline stages
const (
	StageValidate  Stage = "validate"
	StageAnalyze   Stage = "analyze"
	StageCompile   Stage = "compile"
	StageRewrite   Stage = "rewrite"
	StageReanalyze Stage = "reanalyze"
)

// Error represents a failure at one stage of a tailoring run
type Error struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
