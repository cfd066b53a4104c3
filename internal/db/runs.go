package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultListLimit caps ListRuns when no positive limit is given
const DefaultListLimit = 50

// RunStore reads and writes tailoring runs
type RunStore struct {
	DB *sql.DB
}

// NewRunStore wraps an open database
func NewRunStore(conn *sql.DB) *RunStore {
	return &RunStore{DB: conn}
}

// SaveRun stores a completed run with its intermediate artifacts in one transaction
func (s *RunStore) SaveRun(ctx context.Context, result *types.HybridTailorResult) (uuid.UUID, error) {
	if result == nil || result.PreAnalysis == nil {
		return uuid.Nil, fmt.Errorf("cannot save run without result and pre-analysis")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var baseline, quality sql.NullInt64
	var label sql.NullString
	if result.BaselineScore != nil {
		baseline = sql.NullInt64{Int64: int64(result.BaselineScore.Composite), Valid: true}
	}
	if result.QualityScore != nil {
		quality = sql.NullInt64{Int64: int64(result.QualityScore.Composite), Valid: true}
		label = sql.NullString{String: string(result.QualityScore.Label), Valid: true}
	}

	id := uuid.New()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tailoring_runs (id, resume_id, job_id, status, baseline_composite, quality_composite,
		                             quality_label, total_changes, processing_time_ms, total_tokens, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, result.PreAnalysis.ResumeID, result.PreAnalysis.JobID, RunStatusCompleted,
		baseline, quality, label, result.Changes.TotalChanges, result.ProcessingTimeMs,
		result.TokenUsage.TotalTokens, resultJSON,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, artifact := range artifactsOf(result) {
		content, err := json.Marshal(artifact.content)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal artifact %s: %w", artifact.step, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_artifacts (run_id, step, content)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
			id, artifact.step, content,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to save artifact %s: %w", artifact.step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// SaveFailure records a run that stopped at stage
func (s *RunStore) SaveFailure(ctx context.Context, resumeID, jobID, stage, message string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO tailoring_runs (id, resume_id, job_id, status, error_stage, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, resumeID, jobID, RunStatusFailed, stage, message,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record failed run: %w", err)
	}
	return id, nil
}

// GetRun retrieves a run by ID. It returns nil, nil when the run does not exist.
func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	var baseline, quality, changes, tokens sql.NullInt64
	var elapsed sql.NullInt64
	var label, stage, message sql.NullString
	var resultJSON []byte

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, resume_id, job_id, status, baseline_composite, quality_composite, quality_label,
		        total_changes, processing_time_ms, total_tokens, error_stage, error_message, result, created_at
		 FROM tailoring_runs
		 WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.ResumeID, &run.JobID, &run.Status, &baseline, &quality, &label,
		&changes, &elapsed, &tokens, &stage, &message, &resultJSON, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.BaselineComposite = intPtr(baseline)
	run.QualityComposite = intPtr(quality)
	run.TotalChanges = intPtr(changes)
	run.TotalTokens = intPtr(tokens)
	if elapsed.Valid {
		run.ProcessingTimeMs = &elapsed.Int64
	}
	run.QualityLabel = label.String
	run.ErrorStage = stage.String
	run.ErrorMessage = message.String

	if len(resultJSON) > 0 {
		var result types.HybridTailorResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
		}
		run.Result = &result
	}
	return &run, nil
}

// ListRuns returns the newest runs first, filtered to resumeID when it is not empty
func (s *RunStore) ListRuns(ctx context.Context, resumeID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, resume_id, job_id, status, baseline_composite, quality_composite, quality_label,
	                 total_changes, processing_time_ms, created_at
	          FROM tailoring_runs`
	args := []any{}
	if resumeID != "" {
		query += ` WHERE resume_id = $1`
		args = append(args, resumeID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var baseline, quality, changes, elapsed sql.NullInt64
		var label sql.NullString
		if err := rows.Scan(&run.ID, &run.ResumeID, &run.JobID, &run.Status, &baseline, &quality,
			&label, &changes, &elapsed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.BaselineComposite = intPtr(baseline)
		run.QualityComposite = intPtr(quality)
		run.TotalChanges = intPtr(changes)
		if elapsed.Valid {
			v := elapsed.Int64
			run.ProcessingTimeMs = &v
		}
		run.QualityLabel = label.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetArtifact retrieves the JSON artifact saved for a run step. It returns nil, nil when absent.
func (s *RunStore) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

type artifact struct {
	step    string
	content any
}

func artifactsOf(result *types.HybridTailorResult) []artifact {
	out := []artifact{{StepPreAnalysis, result.PreAnalysis}}
	if len(result.AppliedRules) > 0 {
		out = append(out, artifact{StepAppliedRules, result.AppliedRules})
	}
	if result.Instructions != nil {
		out = append(out, artifact{StepInstructions, result.Instructions})
	}
	if result.TailoredResume != nil {
		out = append(out, artifact{StepTailoredResume, result.TailoredResume})
	}
	if result.PostAnalysis != nil {
		out = append(out, artifact{StepPostAnalysis, result.PostAnalysis})
	}
	return out
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
