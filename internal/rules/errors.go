// Package rules evaluates declarative transformation rules against a pre-analysis bundle.
package rules

import "fmt"

// Error represents an error that occurs while loading or evaluating rules
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

// ConfigError describes a malformed rule definition found at load time
type ConfigError struct {
	RuleID  string
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.RuleID != "" && e.Path != "":
		return fmt.Sprintf("rule %s: %s: %s", e.RuleID, e.Path, e.Message)
	case e.RuleID != "":
		return fmt.Sprintf("rule %s: %s", e.RuleID, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// EvalError describes a condition that could not be evaluated against present data,
// such as a kind mismatch between the resolved field and the configured value.
type EvalError struct {
	RuleID  string
	Field   string
	Message string
}

func (e *EvalError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("rule %s: field %q: %s", e.RuleID, e.Field, e.Message)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}
