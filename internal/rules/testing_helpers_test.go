package rules

import (
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

func fixtureResume() *types.ResumeContent {
	return &types.ResumeContent{
		ID:      "resume_001",
		Contact: types.Contact{Name: "Ana Silva", Email: "ana@example.com"},
		Summary: "Backend engineer focused on payments.",
		Experiences: []types.Experience{
			{
				ID: "exp_1", Title: "Senior Engineer", Company: "Nubank", StartDate: "2021-01",
				Bullets: []types.Bullet{
					{ID: "b1", Text: "Built payment APIs"},
					{ID: "b2", Text: "Cut p99 latency by 40%"},
				},
			},
			{
				ID: "exp_2", Title: "Engineer", Company: "Stone", StartDate: "2018-03",
				Bullets: []types.Bullet{
					{ID: "b3", Text: "Maintained ledger service"},
				},
			},
		},
		Skills: types.Skills{Technical: []string{"Python", "Go", "SQL"}},
	}
}

func fixtureJob() *types.JobData {
	return &types.JobData{
		ID:          "job_001",
		Title:       "Staff Backend Engineer",
		CompanyName: "Stripe",
		Skills:      []string{"Go", "Kubernetes"},
	}
}

func fixtureAnalysis() *types.PreAnalysisResult {
	return &types.PreAnalysisResult{
		ResumeID:   "resume_001",
		JobID:      "job_001",
		AnalyzedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Impact: &types.ImpactResult{
			TotalBullets:      3,
			QuantifiedBullets: 1,
			Bullets: []types.BulletImpact{
				{BulletID: "b1", ExperienceID: "exp_1", ImpactLevel: 2, SuggestedMetrics: []string{"requests per second"}},
				{BulletID: "b2", ExperienceID: "exp_1", ImpactLevel: 4, HasMetrics: true},
				{BulletID: "b3", ExperienceID: "exp_2", ImpactLevel: 1},
			},
		},
		Uniqueness: &types.UniquenessResult{
			Score: 40,
			Differentiators: []types.Differentiator{
				{Text: "Built a ledger from scratch", Rarity: types.RarityRare, BulletIDs: []string{"b3"}},
				{Text: "Python", Rarity: types.RarityCommon, ExperienceIDs: []string{"exp_1"}},
			},
		},
		Context: &types.ContextResult{
			MatchScore:      55,
			MatchedKeywords: []string{"Go"},
			MissingKeywords: []string{"Kubernetes", "gRPC"},
			ExperienceRelevance: []types.ExperienceRelevance{
				{ExperienceID: "exp_1", Score: 40},
				{ExperienceID: "exp_2", Score: 80},
			},
			BulletRelevance: []types.BulletRelevance{
				{BulletID: "b1", ExperienceID: "exp_1", Score: 30, MissingKeywords: []string{"gRPC"}},
				{BulletID: "b2", ExperienceID: "exp_1", Score: 90},
				{BulletID: "b3", ExperienceID: "exp_2", Score: 50},
			},
		},
		Company: &types.CompanyResearchResult{
			CompanyName:      "Stone",
			IsWellKnown:      false,
			EffectiveContext: "Brazilian payments processor serving 3M merchants",
			ResearchQuality:  80,
			ExperienceIDs:    []string{"exp_2"},
		},
		SoftSkills: []types.SoftSkillAssessment{
			{Skill: "Mentoring", EvidenceScore: 4, BulletIDs: []string{"b2"}},
			{Skill: "Negotiation", EvidenceScore: 2, BulletIDs: []string{"b1"}},
		},
	}
}

func fixtureInput() Input {
	return Input{Analysis: fixtureAnalysis(), Resume: fixtureResume(), Job: fixtureJob()}
}

func leaf(typ types.ConditionType, field string, op types.Operator, value any) types.RuleCondition {
	return types.RuleCondition{Type: typ, Field: field, Operator: op, Value: value}
}

func rule(id string, priority int, cond types.RuleCondition) types.TransformationRule {
	return types.TransformationRule{
		ID:             id,
		Name:           id,
		Priority:       priority,
		RecruiterIssue: types.IssueImpact,
		Condition:      cond,
		Actions:        []types.TransformationAction{{Type: types.ActionEnhance, Target: types.TargetBullet}},
		StrategicTone:  types.ToneMeasured,
		Enabled:        true,
	}
}
