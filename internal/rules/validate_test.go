package rules

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nest(depth int) types.RuleCondition {
	cond := types.RuleCondition{Type: types.ConditionAnd}
	for i := 1; i < depth; i++ {
		cond = types.RuleCondition{Type: types.ConditionAnd, Conditions: []types.RuleCondition{cond}}
	}
	return cond
}

func TestValidateCondition(t *testing.T) {
	tests := []struct {
		name    string
		cond    types.RuleCondition
		wantErr string
	}{
		{name: "empty and", cond: types.RuleCondition{Type: types.ConditionAnd}},
		{name: "max depth", cond: nest(MaxConditionDepth)},
		{name: "too deep", cond: nest(MaxConditionDepth + 1), wantErr: "nesting exceeds"},
		{name: "unknown type", cond: types.RuleCondition{Type: "xor"}, wantErr: "unknown condition type"},
		{name: "not without child", cond: types.RuleCondition{Type: types.ConditionNot}, wantErr: "exactly one child"},
		{
			name:    "not with two children",
			cond:    types.RuleCondition{Type: types.ConditionNot, Conditions: []types.RuleCondition{{Type: types.ConditionAnd}, {Type: types.ConditionOr}}},
			wantErr: "exactly one child",
		},
		{name: "composite with field", cond: types.RuleCondition{Type: types.ConditionOr, Field: "impact"}, wantErr: "takes no field"},
		{name: "threshold ok", cond: leaf(types.ConditionThreshold, "impact.bullets.#.impactLevel", types.OpLess, 3)},
		{name: "threshold missing field", cond: leaf(types.ConditionThreshold, "", types.OpLess, 3), wantErr: "field is required"},
		{name: "threshold unknown root", cond: leaf(types.ConditionThreshold, "salary.amount", types.OpLess, 3), wantErr: "unknown field"},
		{name: "threshold with in", cond: leaf(types.ConditionThreshold, "context.matchScore", types.OpIn, 3), wantErr: "not valid for threshold"},
		{name: "threshold string value", cond: leaf(types.ConditionThreshold, "context.matchScore", types.OpLess, "3"), wantErr: "must be numeric"},
		{name: "match in ok", cond: leaf(types.ConditionMatch, "uniqueness.differentiators.#.rarity", types.OpIn, []any{"rare"})},
		{name: "match in scalar value", cond: leaf(types.ConditionMatch, "company.industry", types.OpIn, "fintech"), wantErr: "must be an array"},
		{name: "match in nested list", cond: leaf(types.ConditionMatch, "company.industry", types.OpIn, []any{[]any{"x"}}), wantErr: "value[0]"},
		{name: "match less", cond: leaf(types.ConditionMatch, "company.industry", types.OpLess, 1), wantErr: "not valid for match"},
		{name: "match nil value", cond: leaf(types.ConditionMatch, "company.industry", types.OpEqual, nil), wantErr: "string, number or boolean"},
		{name: "exists ok", cond: types.RuleCondition{Type: types.ConditionExists, Field: "company"}},
		{name: "exists with value", cond: leaf(types.ConditionExists, "company", types.OpEqual, true), wantErr: "takes no operator"},
		{name: "leaf with children", cond: types.RuleCondition{Type: types.ConditionExists, Field: "company", Conditions: []types.RuleCondition{{Type: types.ConditionAnd}}}, wantErr: "cannot have children"},
		{name: "trailing collection", cond: types.RuleCondition{Type: types.ConditionExists, Field: "impact.bullets.#."}, wantErr: "malformed field path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCondition(&tt.cond)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCondition_ReportsPath(t *testing.T) {
	cond := types.RuleCondition{
		Type: types.ConditionAnd,
		Conditions: []types.RuleCondition{
			{Type: types.ConditionAnd},
			{Type: types.ConditionOr, Conditions: []types.RuleCondition{leaf(types.ConditionThreshold, "context.matchScore", "~", 1)}},
		},
	}
	err := ValidateCondition(&cond)
	require.NotNil(t, err)
	assert.Equal(t, "condition.conditions[1].conditions[0]", err.Path)
}

func TestValidateRule(t *testing.T) {
	valid := func() types.TransformationRule {
		return rule("r1", 1, types.RuleCondition{Type: types.ConditionAnd})
	}
	tests := []struct {
		name    string
		mutate  func(r *types.TransformationRule)
		wantErr string
	}{
		{name: "valid", mutate: func(*types.TransformationRule) {}},
		{name: "missing id", mutate: func(r *types.TransformationRule) { r.ID = " " }, wantErr: "rule id is required"},
		{name: "missing name", mutate: func(r *types.TransformationRule) { r.Name = "" }, wantErr: "rule name is required"},
		{name: "negative priority", mutate: func(r *types.TransformationRule) { r.Priority = -1 }, wantErr: "priority must be >= 0"},
		{name: "issue zero", mutate: func(r *types.TransformationRule) { r.RecruiterIssue = 0 }, wantErr: "recruiter issue"},
		{name: "unknown tone", mutate: func(r *types.TransformationRule) { r.StrategicTone = "bold" }, wantErr: "unknown strategic tone"},
		{name: "unknown action", mutate: func(r *types.TransformationRule) { r.Actions[0].Type = "delete" }, wantErr: "unknown action type"},
		{name: "unknown target", mutate: func(r *types.TransformationRule) { r.Actions[0].Target = "footer" }, wantErr: "unknown action target"},
		{
			name:    "bad condition carries rule id",
			mutate:  func(r *types.TransformationRule) { r.Condition = types.RuleCondition{Type: "xor"} },
			wantErr: "rule r1: condition: unknown condition type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := ValidateRule(&r)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRules_Duplicates(t *testing.T) {
	always := types.RuleCondition{Type: types.ConditionAnd}
	errs := ValidateRules([]types.TransformationRule{rule("a", 1, always), rule("a", 2, always), rule("b", 3, always)})
	require.Len(t, errs, 1)
	assert.Equal(t, "a", errs[0].RuleID)
	assert.Contains(t, errs[0].Message, "duplicate")
}

func TestDefaultRules_AllValid(t *testing.T) {
	set, err := DefaultRules()
	require.NoError(t, err)
	require.NotEmpty(t, set.Rules)
	assert.Empty(t, ValidateRules(set.Rules))

	issues := map[types.RecruiterIssue]bool{}
	for _, r := range set.Rules {
		issues[r.RecruiterIssue] = true
	}
	for issue := types.IssueUniqueness; issue <= types.IssueCustomization; issue++ {
		assert.True(t, issues[issue], "default rules should address %s", issue)
	}
}
