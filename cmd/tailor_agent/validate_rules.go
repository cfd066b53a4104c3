package main

import (
	"fmt"

	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/spf13/cobra"
)

var validateRulesCmd = &cobra.Command{
	Use:   "validate-rules",
	Short: "Validate a rule file",
	Long:  "Checks a rule file against the rules JSON Schema, then checks every rule's condition tree, operators and actions.",
	RunE:  runValidateRules,
}

var validateRulesFile string

func init() {
	validateRulesCmd.Flags().StringVarP(&validateRulesFile, "rules", "r", "", "Path to rules JSON file (default: built-in rules)")
	rootCmd.AddCommand(validateRulesCmd)
}

func runValidateRules(cmd *cobra.Command, _ []string) error {
	var (
		set *rules.RuleSet
		err error
	)
	if validateRulesFile == "" {
		set, err = rules.DefaultRules()
	} else {
		set, err = rules.LoadRulesFile(validateRulesFile)
	}
	if err != nil {
		return err
	}

	problems := rules.ValidateRules(set.Rules)
	out := cmd.OutOrStdout()
	for _, p := range problems {
		_, _ = fmt.Fprintf(out, "✗ %s\n", p.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d of %d rules are invalid", len(problems), len(set.Rules))
	}
	_, _ = fmt.Fprintf(out, "✓ %d rules valid\n", len(set.Rules))
	return nil
}
