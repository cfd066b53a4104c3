package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a résumé to a job",
	Long: `Runs the full hybrid pipeline: collect the pre-analysis with the LLM (unless one is
supplied), evaluate rules, compile instructions, rewrite, re-analyze and score before
and after. The run is stored when database.url is configured.`,
	RunE: runTailor,
}

var (
	tailorResumeFile      string
	tailorJobFile         string
	tailorPreAnalysisFile string
	tailorOutputFile      string
	tailorNoStore         bool
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorResumeFile, "resume", "r", "", "Path to résumé JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorJobFile, "job", "j", "", "Path to job JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorPreAnalysisFile, "pre-analysis", "p", "", "Path to an existing PreAnalysisResult JSON file")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Output file (default: stdout)")
	tailorCmd.Flags().BoolVar(&tailorNoStore, "no-store", false, "Do not store the run even when a database is configured")
	markRequired(tailorCmd, "resume", "job")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	req := tailoring.Request{Resume: &types.ResumeContent{}, Job: &types.JobData{}}
	if err := readJSON(tailorResumeFile, schemas.Resume, req.Resume); err != nil {
		return err
	}
	if err := readJSON(tailorJobFile, schemas.Job, req.Job); err != nil {
		return err
	}
	if tailorPreAnalysisFile != "" {
		req.PreAnalysis = &types.PreAnalysisResult{}
		if err := readJSON(tailorPreAnalysisFile, schemas.PreAnalysis, req.PreAnalysis); err != nil {
			return err
		}
	}

	if err := a.withTailor(ctx); err != nil {
		return err
	}
	if !tailorNoStore {
		if err := a.withStore(ctx); err != nil {
			return err
		}
	}

	result, err := a.tailor.Run(ctx, req)
	if err != nil {
		a.recordFailure(req, err)
		return err
	}
	if a.store != nil {
		id, err := a.store.SaveRun(ctx, result)
		if err != nil {
			a.logger.Error().Err(err).Msg("Failed to save run")
		} else {
			a.logger.Info().Str("run_id", id.String()).Msg("Run saved")
		}
	}

	if verbose {
		p := observability.NewPrinter(os.Stderr)
		p.PrintPreAnalysis(result.PreAnalysis)
		p.PrintRuleResults(result.AppliedRules)
		p.PrintInstructions(result.Instructions)
		p.PrintChanges(result.Changes)
		p.PrintScore("BASELINE", result.BaselineScore)
		p.PrintScore("TAILORED", result.QualityScore)
	}
	return writeJSON(tailorOutputFile, result)
}

// recordFailure stores a failed run; validation failures are not runs
func (a *app) recordFailure(req tailoring.Request, runErr error) {
	var tailorErr *tailoring.Error
	if a.store == nil || !errors.As(runErr, &tailorErr) || tailorErr.Stage == tailoring.StageValidate {
		return
	}
	if _, err := a.store.SaveFailure(context.Background(), req.Resume.ID, req.Job.ID, string(tailorErr.Stage), runErr.Error()); err != nil {
		a.logger.Error().Err(err).Msg("Failed to record failed run")
	}
}
