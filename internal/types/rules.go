// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RecruiterIssue identifies one of the five résumé weaknesses the rules address
type RecruiterIssue int

// Recruiter issues
const (
	IssueUniqueness    RecruiterIssue = 1
	IssueImpact        RecruiterIssue = 2
	IssueUSContext     RecruiterIssue = 3
	IssueCulturalFit   RecruiterIssue = 4
	IssueCustomization RecruiterIssue = 5
)

// StrategicTone controls how assertively generated text claims credit
type StrategicTone string

// Strategic tones
const (
	ToneConfident StrategicTone = "confident"
	ToneMeasured  StrategicTone = "measured"
	ToneHumble    StrategicTone = "humble"
)

// ConditionType is the closed set of rule condition node kinds
type ConditionType string

// Condition types
const (
	ConditionAnd       ConditionType = "and"
	ConditionOr        ConditionType = "or"
	ConditionNot       ConditionType = "not"
	ConditionThreshold ConditionType = "threshold"
	ConditionMatch     ConditionType = "match"
	ConditionExists    ConditionType = "exists"
)

// Operator compares a resolved field against a condition value
type Operator string

// Operators
const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpGreaterEqual Operator = ">="
	OpGreater      Operator = ">"
	OpIn           Operator = "in"
	OpContains     Operator = "contains"
)

// ActionType declares what kind of change an action makes
type ActionType string

// Action types
const (
	ActionApplyTemplate  ActionType = "apply_template"
	ActionReorder        ActionType = "reorder"
	ActionEnhance        ActionType = "enhance"
	ActionContextualize  ActionType = "contextualize"
	ActionHighlight      ActionType = "highlight"
	ActionInjectKeywords ActionType = "inject_keywords"
	ActionAddSoftSkills  ActionType = "add_soft_skills"
)

// ActionTarget is the résumé element an action applies to
type ActionTarget string

// Action targets
const (
	TargetBullet     ActionTarget = "bullet"
	TargetSummary    ActionTarget = "summary"
	TargetSkills     ActionTarget = "skills"
	TargetExperience ActionTarget = "experience"
	TargetSection    ActionTarget = "section"
)

// TransformationRule is a static, versioned rule loaded at startup
type TransformationRule struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	Version        string                 `json:"version,omitempty"`
	Priority       int                    `json:"priority"`
	RecruiterIssue RecruiterIssue         `json:"recruiterIssue"`
	Condition      RuleCondition          `json:"condition"`
	Actions        []TransformationAction `json:"actions"`
	StrategicTone  StrategicTone          `json:"strategicTone"`
	Enabled        bool                   `json:"enabled"`
}

// RuleCondition is a node of a boolean expression tree over the evaluation document.
// Composite nodes (and, or, not) use Conditions; leaves use Field, Operator and Value.
type RuleCondition struct {
	Type       ConditionType   `json:"type"`
	Field      string          `json:"field,omitempty"`
	Operator   Operator        `json:"operator,omitempty"`
	Value      any             `json:"value,omitempty"`
	Conditions []RuleCondition `json:"conditions,omitempty"`
}

// TransformationAction declares what should change; it carries no résumé data until compiled
type TransformationAction struct {
	Type                    ActionType     `json:"type"`
	Target                  ActionTarget   `json:"target"`
	TemplateID              string         `json:"templateId,omitempty"`
	Data                    map[string]any `json:"data,omitempty"`
	PreserveOriginalMeaning bool           `json:"preserveOriginalMeaning"`
}

// RuleEvaluationResult is the outcome of evaluating one rule in one run
type RuleEvaluationResult struct {
	RuleID         string                 `json:"ruleId"`
	RuleName       string                 `json:"ruleName"`
	Priority       int                    `json:"priority"`
	Matched        bool                   `json:"matched"`
	RecruiterIssue RecruiterIssue         `json:"recruiterIssue"`
	MatchedTargets []string               `json:"matchedTargets"`
	Actions        []TransformationAction `json:"actions"`
	StrategicTone  StrategicTone          `json:"strategicTone"`
	Error          string                 `json:"error,omitempty"`
}

// IsValid reports whether the tone is one of the known tones
func (t StrategicTone) IsValid() bool {
	switch t {
	case ToneConfident, ToneMeasured, ToneHumble:
		return true
	}
	return false
}

// IsValid reports whether the issue is within 1..5
func (i RecruiterIssue) IsValid() bool {
	return i >= IssueUniqueness && i <= IssueCustomization
}

// String returns the issue's short name
func (i RecruiterIssue) String() string {
	switch i {
	case IssueUniqueness:
		return "uniqueness"
	case IssueImpact:
		return "impact"
	case IssueUSContext:
		return "us_context"
	case IssueCulturalFit:
		return "cultural_fit"
	case IssueCustomization:
		return "customization"
	default:
		return "unknown"
	}
}
