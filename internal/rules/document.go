package rules

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Input is everything a rule condition can refer to
type Input struct {
	Analysis *types.PreAnalysisResult
	Resume   *types.ResumeContent
	Job      *types.JobData
}

// Signals are values derived from the bundle so rules can test them directly.
// Nil pointers are omitted, so conditions over them fail closed.
type Signals struct {
	QuantifiedRatio          *float64 `json:"quantifiedRatio,omitempty"`
	RareDifferentiatorCount  *int     `json:"rareDifferentiatorCount,omitempty"`
	AverageSoftSkillEvidence *float64 `json:"averageSoftSkillEvidence,omitempty"`
	MissingSkillCount        *int     `json:"missingSkillCount,omitempty"`
	MatchedSkillCount        *int     `json:"matchedSkillCount,omitempty"`
	BulletCount              int      `json:"bulletCount"`
	HasSummary               bool     `json:"hasSummary"`
}

type document struct {
	Impact     *types.ImpactResult          `json:"impact"`
	Uniqueness *types.UniquenessResult      `json:"uniqueness"`
	Context    *types.ContextResult         `json:"context"`
	Company    *types.CompanyResearchResult `json:"company"`
	SoftSkills []types.SoftSkillAssessment  `json:"softSkills"`
	ResumeID   string                       `json:"resumeId,omitempty"`
	JobID      string                       `json:"jobId,omitempty"`
	Resume     *types.ResumeContent         `json:"resume"`
	Job        *types.JobData               `json:"job"`
	Signals    Signals                      `json:"signals"`
}

// buildDocument renders the JSON document that condition field paths resolve against
func buildDocument(in Input) (string, error) {
	doc := document{
		Resume:  in.Resume,
		Job:     in.Job,
		Signals: ComputeSignals(in),
	}
	if a := in.Analysis; a != nil {
		doc.Impact = a.Impact
		doc.Uniqueness = a.Uniqueness
		doc.Context = a.Context
		doc.Company = a.Company
		doc.SoftSkills = a.SoftSkills
		doc.ResumeID = a.ResumeID
		doc.JobID = a.JobID
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", &Error{Message: "failed to render evaluation document", Cause: err}
	}
	return string(data), nil
}

// ComputeSignals derives the signals block for an input
func ComputeSignals(in Input) Signals {
	var s Signals
	if in.Resume != nil {
		s.BulletCount = in.Resume.BulletCount()
		s.HasSummary = strings.TrimSpace(in.Resume.Summary) != ""
	}

	if a := in.Analysis; a != nil {
		if a.Impact != nil {
			total, quantified := a.Impact.Counts()
			if total > 0 {
				ratio := float64(quantified) / float64(total)
				s.QuantifiedRatio = &ratio
			}
		}
		if a.Uniqueness != nil {
			rare := 0
			for _, d := range a.Uniqueness.Differentiators {
				if d.Rarity == types.RarityRare {
					rare++
				}
			}
			s.RareDifferentiatorCount = &rare
		}
		if len(a.SoftSkills) > 0 {
			sum := 0
			for _, sk := range a.SoftSkills {
				sum += sk.EvidenceScore
			}
			avg := float64(sum) / float64(len(a.SoftSkills))
			s.AverageSoftSkillEvidence = &avg
		}
	}

	if in.Job != nil && in.Resume != nil {
		have := make(map[string]bool, len(in.Resume.Skills.Technical))
		for _, sk := range in.Resume.Skills.Technical {
			have[types.NormalizeSkill(sk)] = true
		}
		missing, matched := 0, 0
		for _, sk := range in.Job.Skills {
			if have[types.NormalizeSkill(sk)] {
				matched++
			} else {
				missing++
			}
		}
		s.MissingSkillCount = &missing
		s.MatchedSkillCount = &matched
	}
	return s
}
