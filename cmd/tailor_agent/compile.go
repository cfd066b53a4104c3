package main

import (
	"os"

	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile matched rules into transformation instructions",
	Long:  "Evaluates the rules and compiles the matches into per-bullet, summary, skills and experience-order instructions for the rewrite step.",
	RunE:  runCompile,
}

var (
	compileAnalysisFile string
	compileResumeFile   string
	compileJobFile      string
	compileOutputFile   string
)

func init() {
	compileCmd.Flags().StringVarP(&compileAnalysisFile, "analysis", "a", "", "Path to PreAnalysisResult JSON file (required)")
	compileCmd.Flags().StringVarP(&compileResumeFile, "resume", "r", "", "Path to résumé JSON file (required)")
	compileCmd.Flags().StringVarP(&compileJobFile, "job", "j", "", "Path to job JSON file (required)")
	compileCmd.Flags().StringVarP(&compileOutputFile, "out", "o", "", "Output file (default: stdout)")
	markRequired(compileCmd, "analysis", "resume", "job")

	rootCmd.AddCommand(compileCmd)
}

// compileOutput is written by the compile command
type compileOutput struct {
	AppliedRules []types.RuleEvaluationResult    `json:"appliedRules"`
	Instructions *types.TransformationInstructions `json:"instructions"`
}

func runCompile(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	in, err := readCoreInputs(compileAnalysisFile, compileResumeFile, compileJobFile)
	if err != nil {
		return err
	}

	matched := a.engine.Evaluate(rules.Input{Analysis: in.analysis, Resume: in.resume, Job: in.job})
	instructions, err := compiler.New(a.logger).Compile(matched, in.analysis, in.resume, in.job)
	if err != nil {
		return err
	}
	if err := schemas.ValidateValue(schemas.Instructions, instructions); err != nil {
		return err
	}

	if verbose {
		p := observability.NewPrinter(os.Stderr)
		p.PrintRuleResults(matched)
		p.PrintInstructions(instructions)
	}
	return writeJSON(compileOutputFile, compileOutput{AppliedRules: matched, Instructions: instructions})
}
