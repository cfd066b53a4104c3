// Package compiler turns matched transformation rules into résumé-specific rewrite instructions.
package compiler

import "fmt"

// Error represents an error that occurs while compiling instructions
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
