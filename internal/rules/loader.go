package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed default_rules.json
var defaultRulesJSON []byte

// RuleSet is the on-disk rule configuration document
type RuleSet struct {
	Version string                     `json:"version,omitempty"`
	Rules   []types.TransformationRule `json:"rules"`
}

// LoadRules reads a rule set and checks it against the rules JSON Schema.
// Semantic problems with individual rules are left for ValidateRules or NewEngine.
func LoadRules(r io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Message: "failed to read rules", Cause: err}
	}
	return parseRules(data)
}

// LoadRulesFile reads a rule set from a JSON file
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read rules file %s", path), Cause: err}
	}
	return parseRules(data)
}

// DefaultRules returns the built-in rule set
func DefaultRules() (*RuleSet, error) {
	return parseRules(defaultRulesJSON)
}

// DefaultRulesJSON returns the raw built-in rule document
func DefaultRulesJSON() []byte {
	out := make([]byte, len(defaultRulesJSON))
	copy(out, defaultRulesJSON)
	return out
}

func parseRules(data []byte) (*RuleSet, error) {
	if err := schemas.Validate(schemas.Rules, data); err != nil {
		return nil, &Error{Message: "rules failed schema validation", Cause: err}
	}
	var set RuleSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, &Error{Message: "failed to parse rules", Cause: err}
	}
	return &set, nil
}
