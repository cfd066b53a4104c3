package rules

import (
	"sort"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Engine evaluates a validated, priority-ordered rule set.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	rules    []types.TransformationRule
	rejected []*ConfigError
	logger   zerolog.Logger
}

// NewEngine validates rules, drops the invalid ones and orders the rest by
// ascending priority, keeping declaration order for equal priorities.
func NewEngine(rules []types.TransformationRule, logger zerolog.Logger) *Engine {
	e := &Engine{logger: logger.With().Str("component", "rules").Logger()}

	bad := make(map[int]bool)
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		err := ValidateRule(&rules[i])
		if err == nil && seen[rules[i].ID] {
			err = &ConfigError{RuleID: rules[i].ID, Message: "duplicate rule id"}
		}
		if err != nil {
			bad[i] = true
			e.rejected = append(e.rejected, err)
			e.logger.Warn().Str("rule_id", rules[i].ID).Err(err).Msg("Rejected invalid rule")
			continue
		}
		seen[rules[i].ID] = true
	}

	e.rules = make([]types.TransformationRule, 0, len(rules)-len(bad))
	for i, rule := range rules {
		if !bad[i] {
			e.rules = append(e.rules, rule)
		}
	}
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority < e.rules[j].Priority
	})
	return e
}

// Rules returns the accepted rules in evaluation order
func (e *Engine) Rules() []types.TransformationRule {
	out := make([]types.TransformationRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Rejected returns the errors of rules dropped at construction
func (e *Engine) Rejected() []*ConfigError {
	out := make([]*ConfigError, len(e.rejected))
	copy(out, e.rejected)
	return out
}

// Evaluate returns the enabled rules whose condition matched, in ascending
// priority. A rule that fails to evaluate is logged and skipped.
func (e *Engine) Evaluate(in Input) []types.RuleEvaluationResult {
	all := e.evaluate(in, false)
	matched := make([]types.RuleEvaluationResult, 0, len(all))
	for _, r := range all {
		if r.Matched && r.Error == "" {
			matched = append(matched, r)
		}
	}
	return matched
}

// EvaluateAll returns one result per accepted rule, including disabled rules,
// non-matches and evaluation errors.
func (e *Engine) EvaluateAll(in Input) []types.RuleEvaluationResult {
	return e.evaluate(in, true)
}

func (e *Engine) evaluate(in Input, includeDisabled bool) []types.RuleEvaluationResult {
	results := make([]types.RuleEvaluationResult, 0, len(e.rules))

	doc, err := buildDocument(in)
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to build evaluation document")
		return results
	}

	for i := range e.rules {
		rule := &e.rules[i]
		if !rule.Enabled && !includeDisabled {
			continue
		}

		result := types.RuleEvaluationResult{
			RuleID:         rule.ID,
			RuleName:       rule.Name,
			Priority:       rule.Priority,
			RecruiterIssue: rule.RecruiterIssue,
			MatchedTargets: []string{},
			Actions:        cloneActions(rule.Actions),
			StrategicTone:  rule.StrategicTone,
		}

		if rule.Enabled {
			out, err := evalCondition(doc, &rule.Condition)
			if err != nil {
				if evalErr, ok := err.(*EvalError); ok {
					evalErr.RuleID = rule.ID
				}
				e.logger.Warn().Str("rule_id", rule.ID).Err(err).Msg("Rule evaluation failed, skipping rule")
				result.Error = err.Error()
			} else {
				result.Matched = out.matched
				if out.matched {
					result.MatchedTargets = OrderTargets(in.Resume, out.targets)
				}
			}
		}

		results = append(results, result)
	}
	return results
}

// OrderTargets keeps the IDs present in the résumé, ordered by résumé position
// (each experience followed by its bullets) and deduplicated.
func OrderTargets(resume *types.ResumeContent, ids []string) []string {
	ordered := []string{}
	if resume == nil || len(ids) == 0 {
		return ordered
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, exp := range resume.Experiences {
		if wanted[exp.ID] {
			ordered = append(ordered, exp.ID)
			delete(wanted, exp.ID)
		}
		for _, b := range exp.Bullets {
			if wanted[b.ID] {
				ordered = append(ordered, b.ID)
				delete(wanted, b.ID)
			}
		}
	}
	return ordered
}

func cloneActions(actions []types.TransformationAction) []types.TransformationAction {
	out := make([]types.TransformationAction, len(actions))
	for i, a := range actions {
		if a.Data != nil {
			data := make(map[string]any, len(a.Data))
			for k, v := range a.Data {
				data[k] = v
			}
			a.Data = data
		}
		out[i] = a
	}
	return out
}
