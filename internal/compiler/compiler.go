package compiler

import (
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Limits on how much a single instruction may ask for
const (
	maxBulletKeywords       = 3
	maxBulletSoftSkills     = 2
	maxBulletDifferentiator = 2
	maxSummaryKeywords      = 5
	maxSummaryItems         = 3
	maxWhyFitPoints         = 3
)

// Compiler builds TransformationInstructions. It keeps no state between calls.
type Compiler struct {
	logger zerolog.Logger
}

// New creates a compiler that logs dropped targets to logger
func New(logger zerolog.Logger) *Compiler {
	return &Compiler{logger: logger.With().Str("component", "compiler").Logger()}
}

// Compile merges matched rule actions into one instruction payload. Rules are
// applied in the order given; later rules only add to earlier contributions.
// Output depends only on the inputs, so compiling twice yields identical JSON.
func (c *Compiler) Compile(
	matched []types.RuleEvaluationResult,
	analysis *types.PreAnalysisResult,
	resume *types.ResumeContent,
	job *types.JobData,
) (*types.TransformationInstructions, error) {
	if resume == nil {
		return nil, &Error{Message: "resume is required"}
	}
	if analysis == nil {
		analysis = &types.PreAnalysisResult{}
	}
	if job == nil {
		job = &types.JobData{}
	}

	acc := newAccumulator(resume, analysis, job)
	for i := range matched {
		result := &matched[i]
		if !result.Matched {
			continue
		}
		acc.addRule(result.RuleID)
		for _, action := range result.Actions {
			c.apply(acc, result, action)
		}
	}

	return &types.TransformationInstructions{
		Bullets:         acc.bulletInstructions(),
		Summary:         acc.summaryInstruction(),
		WhyFit:          acc.whyFitInstruction(),
		Skills:          acc.skillsInstruction(),
		ExperienceOrder: acc.experienceInstruction(),
		AppliedRules:    acc.appliedRules,
		OverallTone:     OverallTone(matched),
	}, nil
}

func (c *Compiler) apply(acc *accumulator, rule *types.RuleEvaluationResult, action types.TransformationAction) {
	target := action.Target
	if target == types.TargetSection {
		section, _ := action.Data["section"].(string)
		switch types.ActionTarget(section) {
		case types.TargetSummary, types.TargetSkills, types.TargetExperience:
			target = types.ActionTarget(section)
		default:
			c.logger.Warn().Str("rule_id", rule.RuleID).Str("section", section).Msg("Skipping section action with unknown section")
			return
		}
	}

	switch target {
	case types.TargetSummary:
		acc.applySummary(rule, action)
	case types.TargetSkills:
		acc.applySkills(action)
	case types.TargetExperience:
		if action.Type == types.ActionReorder {
			acc.experienceReorder = true
			return
		}
		c.applyBullets(acc, rule, action)
	case types.TargetBullet:
		c.applyBullets(acc, rule, action)
	default:
		c.logger.Warn().Str("rule_id", rule.RuleID).Str("target", string(target)).Msg("Skipping action with unknown target")
	}
}

// applyBullets resolves the rule's matched targets to bullets and applies the action.
// Experience IDs expand to the experience's bullets; unknown IDs are dropped.
func (c *Compiler) applyBullets(acc *accumulator, rule *types.RuleEvaluationResult, action types.TransformationAction) {
	if action.Type == types.ActionReorder {
		c.logger.Debug().Str("rule_id", rule.RuleID).Msg("Ignoring reorder on bullet target")
		return
	}
	firstOnly := action.Data["scope"] == "first"

	for _, id := range rule.MatchedTargets {
		if _, ok := acc.bulletRefs[id]; ok {
			acc.applyBullet(id, rule, action)
			continue
		}
		if expIdx, ok := acc.experienceRefs[id]; ok {
			bullets := acc.resume.Experiences[expIdx].Bullets
			if firstOnly && len(bullets) > 1 {
				bullets = bullets[:1]
			}
			for _, b := range bullets {
				acc.applyBullet(b.ID, rule, action)
			}
			continue
		}
		c.logger.Warn().
			Str("rule_id", rule.RuleID).
			Str("bullet_id", id).
			Msg("Dropping instruction for target absent from resume")
	}
}
