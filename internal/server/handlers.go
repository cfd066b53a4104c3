package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/rules"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

// EvaluateRequest is the body of /v1/rules/evaluate and /v1/instructions/compile
type EvaluateRequest struct {
	Analysis *types.PreAnalysisResult `json:"analysis"`
	Resume   *types.ResumeContent     `json:"resume"`
	Job      *types.JobData           `json:"job"`
	// All includes non-matching and disabled rules for diagnostics
	All bool `json:"all,omitempty"`
}

// CompileResponse is the body returned by /v1/instructions/compile
type CompileResponse struct {
	AppliedRules []types.RuleEvaluationResult    `json:"appliedRules"`
	Instructions *types.TransformationInstructions `json:"instructions"`
}

// ScoreRequest is the body of /v1/score
type ScoreRequest struct {
	Analysis *types.PreAnalysisResult `json:"analysis"`
}

// CompareRequest is the body of /v1/score/compare
type CompareRequest struct {
	Before *types.PreAnalysisResult `json:"before"`
	After  *types.PreAnalysisResult `json:"after"`
}

// CompareResponse carries both scores and their comparison
type CompareResponse struct {
	Before     *types.RecruiterReadinessScore `json:"before"`
	After      *types.RecruiterReadinessScore `json:"after"`
	Comparison *types.ScoreComparison         `json:"comparison"`
}

// TailorResponse is the tailoring result plus the stored run ID when persistence is on
type TailorResponse struct {
	RunID string `json:"runId,omitempty"`
	*types.HybridTailorResult
}

// handleListRules returns the accepted rules and the ones rejected at load
func (s *Server) handleListRules(w http.ResponseWriter, _ *http.Request) {
	rejected := make([]string, 0)
	for _, err := range s.engine.Rejected() {
		rejected = append(rejected, err.Error())
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"rules":    s.engine.Rules(),
		"rejected": rejected,
	})
}

// handleEvaluateRules runs the rule engine over a supplied analysis
func (s *Server) handleEvaluateRules(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := validateEvaluate(&req); err != nil {
		s.fail(w, err)
		return
	}

	in := rules.Input{Analysis: req.Analysis, Resume: req.Resume, Job: req.Job}
	var results []types.RuleEvaluationResult
	if req.All {
		results = s.engine.EvaluateAll(in)
	} else {
		results = s.engine.Evaluate(in)
	}
	s.metrics.ObserveRules(results)
	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}

// handleCompile evaluates rules and compiles them into instructions
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := validateEvaluate(&req); err != nil {
		s.fail(w, err)
		return
	}

	matched := s.engine.Evaluate(rules.Input{Analysis: req.Analysis, Resume: req.Resume, Job: req.Job})
	instructions, err := s.compiler.Compile(matched, req.Analysis, req.Resume, req.Job)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CompileResponse{AppliedRules: matched, Instructions: instructions})
}

func validateEvaluate(req *EvaluateRequest) error {
	if req.Resume == nil {
		return &ErrValidation{Field: "resume", Message: "is required"}
	}
	if req.Job == nil {
		return &ErrValidation{Field: "job", Message: "is required"}
	}
	return nil
}

// handleScore scores an analysis bundle. A missing analysis scores as empty.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.scorer.Score(req.Analysis))
}

// handleCompare scores two analyses of the same résumé and diffs them
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Before == nil || req.After == nil {
		s.fail(w, &ErrValidation{Field: "before/after", Message: "both analyses are required"})
		return
	}

	before, after := s.scorer.Score(req.Before), s.scorer.Score(req.After)
	s.jsonResponse(w, http.StatusOK, CompareResponse{
		Before:     before,
		After:      after,
		Comparison: scoring.Compare(before, after),
	})
}

// handleTailor runs the full pipeline and stores the run when a store is configured
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	if s.tailor == nil {
		s.fail(w, &ErrUnavailable{Feature: "tailoring"})
		return
	}

	var req tailoring.Request
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	start := time.Now()
	result, err := s.tailor.Run(r.Context(), req)
	s.metrics.ObserveRun(result, err, time.Since(start))
	if err != nil {
		s.recordFailure(r.Context(), req, err)
		s.fail(w, err)
		return
	}

	resp := TailorResponse{HybridTailorResult: result}
	if s.store != nil {
		id, err := s.store.SaveRun(r.Context(), result)
		if err != nil {
			// the tailored résumé is still returned
			s.logger.Error().Err(err).Msg("Failed to save run")
		} else {
			resp.RunID = id.String()
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) recordFailure(ctx context.Context, req tailoring.Request, runErr error) {
	var tailorErr *tailoring.Error
	if s.store == nil || !errors.As(runErr, &tailorErr) || tailorErr.Stage == tailoring.StageValidate {
		return
	}
	var resumeID, jobID string
	if req.Resume != nil {
		resumeID = req.Resume.ID
	}
	if req.Job != nil {
		jobID = req.Job.ID
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	if _, err := s.store.SaveFailure(ctx, resumeID, jobID, string(tailorErr.Stage), runErr.Error()); err != nil {
		s.logger.Error().Err(err).Msg("Failed to record failed run")
	}
}

// handleGetRun returns a stored run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, &ErrUnavailable{Feature: "run storage"})
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if run == nil {
		s.fail(w, &ErrNotFound{Resource: "run", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleListRuns lists stored runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, &ErrUnavailable{Feature: "run storage"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), r.URL.Query().Get("resumeId"), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	if runs == nil {
		runs = []db.RunSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}
