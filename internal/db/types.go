package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Run status constants
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact step constants
const (
	StepPreAnalysis    = "pre_analysis"
	StepAppliedRules   = "applied_rules"
	StepInstructions   = "instructions"
	StepTailoredResume = "tailored_resume"
	StepPostAnalysis   = "post_analysis"
)

// RunSummary is one row of a run listing
type RunSummary struct {
	ID                uuid.UUID `json:"id"`
	ResumeID          string    `json:"resumeId"`
	JobID             string    `json:"jobId"`
	Status            string    `json:"status"`
	BaselineComposite *int      `json:"baselineComposite,omitempty"`
	QualityComposite  *int      `json:"qualityComposite,omitempty"`
	QualityLabel      string    `json:"qualityLabel,omitempty"`
	TotalChanges      *int      `json:"totalChanges,omitempty"`
	ProcessingTimeMs  *int64    `json:"processingTimeMs,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Run is a stored run with its full result
type Run struct {
	RunSummary
	TotalTokens  *int                      `json:"totalTokens,omitempty"`
	ErrorStage   string                    `json:"errorStage,omitempty"`
	ErrorMessage string                    `json:"errorMessage,omitempty"`
	Result       *types.HybridTailorResult `json:"result,omitempty"`
}

// Delta is the composite change of a completed run, false when either side is missing
func (s RunSummary) Delta() (int, bool) {
	if s.BaselineComposite == nil || s.QualityComposite == nil {
		return 0, false
	}
	return *s.QualityComposite - *s.BaselineComposite, true
}
