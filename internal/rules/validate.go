package rules

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// MaxConditionDepth bounds how deeply condition trees may nest
const MaxConditionDepth = 16

// fieldRoots are the top-level keys of the evaluation document
var fieldRoots = map[string]bool{
	"impact":     true,
	"uniqueness": true,
	"context":    true,
	"company":    true,
	"softSkills": true,
	"resumeId":   true,
	"jobId":      true,
	"resume":     true,
	"job":        true,
	"signals":    true,
}

var validActionTypes = map[types.ActionType]bool{
	types.ActionApplyTemplate:  true,
	types.ActionReorder:        true,
	types.ActionEnhance:        true,
	types.ActionContextualize:  true,
	types.ActionHighlight:      true,
	types.ActionInjectKeywords: true,
	types.ActionAddSoftSkills:  true,
}

var validTargets = map[types.ActionTarget]bool{
	types.TargetBullet:     true,
	types.TargetSummary:    true,
	types.TargetSkills:     true,
	types.TargetExperience: true,
	types.TargetSection:    true,
}

// ValidateRules validates every rule and reports one error per offending rule.
// A rule whose ID repeats an earlier rule's ID is reported as a duplicate.
func ValidateRules(rules []types.TransformationRule) []*ConfigError {
	var errs []*ConfigError
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		if err := ValidateRule(&rules[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[rules[i].ID] {
			errs = append(errs, &ConfigError{RuleID: rules[i].ID, Message: "duplicate rule id"})
			continue
		}
		seen[rules[i].ID] = true
	}
	return errs
}

// ValidateRule checks a single rule's metadata, condition tree and actions
func ValidateRule(rule *types.TransformationRule) *ConfigError {
	if strings.TrimSpace(rule.ID) == "" {
		return &ConfigError{Path: "id", Message: "rule id is required"}
	}
	fail := func(path, format string, args ...any) *ConfigError {
		return &ConfigError{RuleID: rule.ID, Path: path, Message: fmt.Sprintf(format, args...)}
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fail("name", "rule name is required")
	}
	if rule.Priority < 0 {
		return fail("priority", "priority must be >= 0, got %d", rule.Priority)
	}
	if !rule.RecruiterIssue.IsValid() {
		return fail("recruiterIssue", "recruiter issue must be between 1 and 5, got %d", rule.RecruiterIssue)
	}
	if !rule.StrategicTone.IsValid() {
		return fail("strategicTone", "unknown strategic tone %q", rule.StrategicTone)
	}
	for i, action := range rule.Actions {
		path := fmt.Sprintf("actions[%d]", i)
		if !validActionTypes[action.Type] {
			return fail(path+".type", "unknown action type %q", action.Type)
		}
		if !validTargets[action.Target] {
			return fail(path+".target", "unknown action target %q", action.Target)
		}
	}
	if err := ValidateCondition(&rule.Condition); err != nil {
		err.RuleID = rule.ID
		return err
	}
	return nil
}

// ValidateCondition checks that a condition tree is well formed and finite
func ValidateCondition(cond *types.RuleCondition) *ConfigError {
	return validateCondition(cond, "condition", 1)
}

func validateCondition(cond *types.RuleCondition, path string, depth int) *ConfigError {
	if depth > MaxConditionDepth {
		return &ConfigError{Path: path, Message: fmt.Sprintf("condition nesting exceeds %d levels", MaxConditionDepth)}
	}
	fail := func(format string, args ...any) *ConfigError {
		return &ConfigError{Path: path, Message: fmt.Sprintf(format, args...)}
	}

	switch cond.Type {
	case types.ConditionAnd, types.ConditionOr, types.ConditionNot:
		if cond.Field != "" || cond.Operator != "" || cond.Value != nil {
			return fail("%s condition takes no field, operator or value", cond.Type)
		}
		if cond.Type == types.ConditionNot && len(cond.Conditions) != 1 {
			return fail("not condition requires exactly one child, got %d", len(cond.Conditions))
		}
		for i := range cond.Conditions {
			childPath := fmt.Sprintf("%s.conditions[%d]", path, i)
			if err := validateCondition(&cond.Conditions[i], childPath, depth+1); err != nil {
				return err
			}
		}
		return nil

	case types.ConditionThreshold:
		if err := validateLeaf(cond, path); err != nil {
			return err
		}
		switch cond.Operator {
		case types.OpLess, types.OpLessEqual, types.OpEqual, types.OpGreaterEqual, types.OpGreater:
		default:
			return fail("operator %q is not valid for threshold", cond.Operator)
		}
		if _, ok := toFloat64(cond.Value); !ok {
			return fail("threshold value must be numeric, got %T", cond.Value)
		}
		return nil

	case types.ConditionMatch:
		if err := validateLeaf(cond, path); err != nil {
			return err
		}
		switch cond.Operator {
		case types.OpEqual, types.OpContains:
			if !isScalar(cond.Value) {
				return fail("%s value must be a string, number or boolean, got %T", cond.Operator, cond.Value)
			}
		case types.OpIn:
			list, ok := asList(cond.Value)
			if !ok {
				return fail("in value must be an array, got %T", cond.Value)
			}
			for i, item := range list {
				if !isScalar(item) {
					return fail("in value[%d] must be a string, number or boolean, got %T", i, item)
				}
			}
		default:
			return fail("operator %q is not valid for match", cond.Operator)
		}
		return nil

	case types.ConditionExists:
		if err := validateLeaf(cond, path); err != nil {
			return err
		}
		if cond.Operator != "" || cond.Value != nil {
			return fail("exists condition takes no operator or value")
		}
		return nil

	default:
		return fail("unknown condition type %q", cond.Type)
	}
}

func validateLeaf(cond *types.RuleCondition, path string) *ConfigError {
	if len(cond.Conditions) > 0 {
		return &ConfigError{Path: path, Message: fmt.Sprintf("%s condition cannot have children", cond.Type)}
	}
	field := strings.TrimSpace(cond.Field)
	if field == "" {
		return &ConfigError{Path: path + ".field", Message: "field is required"}
	}
	root := field
	if i := strings.IndexByte(field, '.'); i >= 0 {
		root = field[:i]
	}
	if !fieldRoots[root] {
		return &ConfigError{Path: path + ".field", Message: fmt.Sprintf("unknown field %q", cond.Field)}
	}
	if strings.HasSuffix(field, ".#.") || strings.HasPrefix(field, "#.") || strings.Contains(field, "..") {
		return &ConfigError{Path: path + ".field", Message: fmt.Sprintf("malformed field path %q", cond.Field)}
	}
	return nil
}

// toFloat64 converts any numeric kind to float64
func toFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isScalar(v any) bool {
	if _, ok := toFloat64(v); ok {
		return true
	}
	switch v.(type) {
	case string, bool:
		return true
	}
	return false
}

// asList returns the elements of any slice or array value
func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
