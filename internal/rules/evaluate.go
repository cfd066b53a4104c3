package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/tidwall/gjson"
)

const collectionSep = ".#."

// outcome is the result of evaluating one condition node
type outcome struct {
	matched bool
	// targets are IDs of the bullets/experiences whose data satisfied the condition
	targets []string
}

// evalCondition evaluates a condition tree against a rendered evaluation document.
// Every child is evaluated so configuration errors surface regardless of sibling results.
func evalCondition(doc string, cond *types.RuleCondition) (outcome, error) {
	switch cond.Type {
	case types.ConditionAnd:
		out := outcome{matched: true}
		for i := range cond.Conditions {
			child, err := evalCondition(doc, &cond.Conditions[i])
			if err != nil {
				return outcome{}, err
			}
			out.matched = out.matched && child.matched
			out.targets = append(out.targets, child.targets...)
		}
		if !out.matched {
			out.targets = nil
		}
		return out, nil

	case types.ConditionOr:
		var out outcome
		for i := range cond.Conditions {
			child, err := evalCondition(doc, &cond.Conditions[i])
			if err != nil {
				return outcome{}, err
			}
			if child.matched {
				out.matched = true
				out.targets = append(out.targets, child.targets...)
			}
		}
		return out, nil

	case types.ConditionNot:
		if len(cond.Conditions) != 1 {
			return outcome{}, &EvalError{Message: fmt.Sprintf("not condition requires exactly one child, got %d", len(cond.Conditions))}
		}
		child, err := evalCondition(doc, &cond.Conditions[0])
		if err != nil {
			return outcome{}, err
		}
		return outcome{matched: !child.matched}, nil

	case types.ConditionThreshold, types.ConditionMatch, types.ConditionExists:
		return evalPath(gjson.Parse(doc), cond.Field, cond)

	default:
		return outcome{}, &EvalError{Field: cond.Field, Message: fmt.Sprintf("unknown condition type %q", cond.Type)}
	}
}

// evalPath resolves a field path relative to node. A ".#." segment fans out over
// array elements; the leaf matches if any element matches.
func evalPath(node gjson.Result, path string, cond *types.RuleCondition) (outcome, error) {
	if i := strings.Index(path, collectionSep); i >= 0 {
		arr := node.Get(path[:i])
		if isMissing(arr) {
			return outcome{}, nil
		}
		if !arr.IsArray() {
			return outcome{}, &EvalError{Field: cond.Field, Message: fmt.Sprintf("expected array at %q, got %s", path[:i], kindOf(arr))}
		}
		rest := path[i+len(collectionSep):]
		var out outcome
		var evalErr error
		arr.ForEach(func(_, elem gjson.Result) bool {
			child, err := evalPath(elem, rest, cond)
			if err != nil {
				evalErr = err
				return false
			}
			if child.matched {
				out.matched = true
				out.targets = append(out.targets, child.targets...)
			}
			return true
		})
		if evalErr != nil {
			return outcome{}, evalErr
		}
		return out, nil
	}

	value := node.Get(path)
	if isMissing(value) {
		return outcome{}, nil
	}
	matched, err := evalLeaf(value, cond)
	if err != nil || !matched {
		return outcome{}, err
	}
	return outcome{matched: true, targets: targetIDs(parentOf(node, path))}, nil
}

func evalLeaf(value gjson.Result, cond *types.RuleCondition) (bool, error) {
	mismatch := func(want string) error {
		return &EvalError{
			Field:   cond.Field,
			Message: fmt.Sprintf("operator %q needs %s field, got %s", cond.Operator, want, kindOf(value)),
		}
	}

	switch cond.Type {
	case types.ConditionExists:
		switch {
		case value.IsArray():
			return len(value.Array()) > 0, nil
		case value.Type == gjson.String:
			return strings.TrimSpace(value.Str) != "", nil
		}
		return true, nil

	case types.ConditionThreshold:
		want, ok := toFloat64(cond.Value)
		if !ok {
			return false, &EvalError{Field: cond.Field, Message: fmt.Sprintf("threshold value must be numeric, got %T", cond.Value)}
		}
		if value.Type != gjson.Number {
			return false, mismatch("a numeric")
		}
		return compareNumbers(cond.Operator, value.Float(), want, cond.Field)

	case types.ConditionMatch:
		switch cond.Operator {
		case types.OpEqual:
			eq, comparable := scalarEquals(value, cond.Value)
			if !comparable {
				return false, &EvalError{
					Field:   cond.Field,
					Message: fmt.Sprintf("cannot compare %s field with %s value", kindOf(value), kindOfValue(cond.Value)),
				}
			}
			return eq, nil

		case types.OpIn:
			list, ok := asList(cond.Value)
			if !ok {
				return false, &EvalError{Field: cond.Field, Message: fmt.Sprintf("in value must be an array, got %T", cond.Value)}
			}
			if value.IsArray() || value.IsObject() {
				return false, mismatch("a scalar")
			}
			for _, item := range list {
				if eq, _ := scalarEquals(value, item); eq {
					return true, nil
				}
			}
			return false, nil

		case types.OpContains:
			if value.Type == gjson.String {
				needle, ok := cond.Value.(string)
				if !ok {
					return false, &EvalError{Field: cond.Field, Message: fmt.Sprintf("contains on a string field needs a string value, got %T", cond.Value)}
				}
				return strings.Contains(strings.ToLower(value.Str), strings.ToLower(needle)), nil
			}
			if value.IsArray() {
				for _, elem := range value.Array() {
					if eq, _ := scalarEquals(elem, cond.Value); eq {
						return true, nil
					}
				}
				return false, nil
			}
			return false, mismatch("a string or array")
		}
		return false, &EvalError{Field: cond.Field, Message: fmt.Sprintf("operator %q is not valid for match", cond.Operator)}
	}
	return false, &EvalError{Field: cond.Field, Message: fmt.Sprintf("unknown condition type %q", cond.Type)}
}

func compareNumbers(op types.Operator, got, want float64, field string) (bool, error) {
	switch op {
	case types.OpLess:
		return got < want, nil
	case types.OpLessEqual:
		return got <= want, nil
	case types.OpEqual:
		return math.Abs(got-want) < 1e-9, nil
	case types.OpGreaterEqual:
		return got >= want, nil
	case types.OpGreater:
		return got > want, nil
	}
	return false, &EvalError{Field: field, Message: fmt.Sprintf("operator %q is not valid for threshold", op)}
}

// scalarEquals compares a resolved value to a configured scalar. The second result
// is false when the two are of different kinds and cannot be compared.
func scalarEquals(value gjson.Result, want any) (equal, comparable bool) {
	switch value.Type {
	case gjson.Number:
		w, ok := toFloat64(want)
		if !ok {
			return false, false
		}
		return math.Abs(value.Float()-w) < 1e-9, true
	case gjson.String:
		w, ok := want.(string)
		if !ok {
			return false, false
		}
		return value.Str == w, true
	case gjson.True, gjson.False:
		w, ok := want.(bool)
		if !ok {
			return false, false
		}
		return value.Bool() == w, true
	}
	return false, false
}

// targetIDs extracts bullet IDs from an object, falling back to experience IDs
// when the object carries no bullet reference, then to the object's own id
// (résumé bullets and experiences).
func targetIDs(obj gjson.Result) []string {
	if !obj.IsObject() {
		return nil
	}
	if ids := collectIDs(obj, "bulletId", "bulletIds"); len(ids) > 0 {
		return ids
	}
	if ids := collectIDs(obj, "experienceId", "experienceIds"); len(ids) > 0 {
		return ids
	}
	return collectIDs(obj, "id", "")
}

func collectIDs(obj gjson.Result, singleKey, listKey string) []string {
	var ids []string
	if single := obj.Get(singleKey); single.Type == gjson.String && single.Str != "" {
		ids = append(ids, single.Str)
	}
	if listKey == "" {
		return ids
	}
	if list := obj.Get(listKey); list.IsArray() {
		for _, item := range list.Array() {
			if item.Type == gjson.String && item.Str != "" {
				ids = append(ids, item.Str)
			}
		}
	}
	return ids
}

// parentOf returns the object that directly holds the value at path
func parentOf(node gjson.Result, path string) gjson.Result {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return node
	}
	return node.Get(path[:i])
}

func isMissing(r gjson.Result) bool {
	return !r.Exists() || r.Type == gjson.Null
}

func kindOf(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	}
	switch r.Type {
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	}
	return "unknown"
}

func kindOfValue(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat64(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
