package main

import (
	"os"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate-rules",
	Short: "Evaluate transformation rules against a pre-analysis",
	Long:  "Runs the rule engine over a pre-analysis, résumé and job and writes the matching rules with their targets.",
	RunE:  runEvaluate,
}

var (
	evaluateAnalysisFile string
	evaluateResumeFile   string
	evaluateJobFile      string
	evaluateAll          bool
	evaluateOutputFile   string
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateAnalysisFile, "analysis", "a", "", "Path to PreAnalysisResult JSON file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateResumeFile, "resume", "r", "", "Path to résumé JSON file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateJobFile, "job", "j", "", "Path to job JSON file (required)")
	evaluateCmd.Flags().BoolVar(&evaluateAll, "all", false, "Include rules that did not match")
	evaluateCmd.Flags().StringVarP(&evaluateOutputFile, "out", "o", "", "Output file (default: stdout)")
	markRequired(evaluateCmd, "analysis", "resume", "job")

	rootCmd.AddCommand(evaluateCmd)
}

// coreInputs are the three documents every deterministic stage reads
type coreInputs struct {
	analysis *types.PreAnalysisResult
	resume   *types.ResumeContent
	job      *types.JobData
}

func readCoreInputs(analysisPath, resumePath, jobPath string) (*coreInputs, error) {
	in := &coreInputs{
		analysis: &types.PreAnalysisResult{},
		resume:   &types.ResumeContent{},
		job:      &types.JobData{},
	}
	if err := readJSON(analysisPath, schemas.PreAnalysis, in.analysis); err != nil {
		return nil, err
	}
	if err := readJSON(resumePath, schemas.Resume, in.resume); err != nil {
		return nil, err
	}
	if err := readJSON(jobPath, schemas.Job, in.job); err != nil {
		return nil, err
	}
	return in, nil
}

func runEvaluate(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	in, err := readCoreInputs(evaluateAnalysisFile, evaluateResumeFile, evaluateJobFile)
	if err != nil {
		return err
	}

	input := rules.Input{Analysis: in.analysis, Resume: in.resume, Job: in.job}
	var results []types.RuleEvaluationResult
	if evaluateAll {
		results = a.engine.EvaluateAll(input)
	} else {
		results = a.engine.Evaluate(input)
	}

	if verbose {
		observability.NewPrinter(os.Stderr).PrintRuleResults(results)
	}
	return writeJSON(evaluateOutputFile, results)
}
