package main

import (
	"os"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the recruiter-readiness score of a pre-analysis",
	RunE:  runScore,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the scores of two analyses of the same résumé",
	Long:  "Scores a before and an after analysis and reports the composite delta and per-dimension changes.",
	RunE:  runCompare,
}

var (
	scoreAnalysisFile string
	scoreOutputFile   string

	compareBeforeFile string
	compareAfterFile  string
	compareOutputFile string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreAnalysisFile, "analysis", "a", "", "Path to PreAnalysisResult JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Output file (default: stdout)")
	markRequired(scoreCmd, "analysis")

	compareCmd.Flags().StringVarP(&compareBeforeFile, "before", "b", "", "Path to the baseline PreAnalysisResult JSON file (required)")
	compareCmd.Flags().StringVarP(&compareAfterFile, "after", "a", "", "Path to the tailored PreAnalysisResult JSON file (required)")
	compareCmd.Flags().StringVarP(&compareOutputFile, "out", "o", "", "Output file (default: stdout)")
	markRequired(compareCmd, "before", "after")

	rootCmd.AddCommand(scoreCmd, compareCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	var analysis types.PreAnalysisResult
	if err := readJSON(scoreAnalysisFile, schemas.PreAnalysis, &analysis); err != nil {
		return err
	}

	score := a.scorer.Score(&analysis)
	if verbose {
		observability.NewPrinter(os.Stderr).PrintScore("RECRUITER READINESS", score)
	}
	return writeJSON(scoreOutputFile, score)
}

// comparisonOutput is written by the compare command
type comparisonOutput struct {
	Before     *types.RecruiterReadinessScore `json:"before"`
	After      *types.RecruiterReadinessScore `json:"after"`
	Comparison *types.ScoreComparison         `json:"comparison"`
}

func runCompare(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	var before, after types.PreAnalysisResult
	if err := readJSON(compareBeforeFile, schemas.PreAnalysis, &before); err != nil {
		return err
	}
	if err := readJSON(compareAfterFile, schemas.PreAnalysis, &after); err != nil {
		return err
	}

	out := comparisonOutput{Before: a.scorer.Score(&before), After: a.scorer.Score(&after)}
	out.Comparison = scoring.Compare(out.Before, out.After)
	if verbose {
		observability.NewPrinter(os.Stderr).PrintComparison(out.Comparison)
	}
	return writeJSON(compareOutputFile, out)
}
