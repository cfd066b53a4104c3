// Package analysis assembles the pre-analysis bundle consumed by the rule engine and scorer.
package analysis

import "fmt"

// Error represents an error that occurs while collecting sub-analyses
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
