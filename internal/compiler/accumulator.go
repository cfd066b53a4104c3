package compiler

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// accumulator collects contributions per bullet and per section. Contributions
// only ever add flags or data; first-set fields are never overwritten.
type accumulator struct {
	resume   *types.ResumeContent
	analysis *types.PreAnalysisResult
	job      *types.JobData

	bulletRefs     map[string]types.BulletRef
	experienceRefs map[string]int

	bullets      map[string]*types.BulletTransformInstruction
	appliedRules []string

	summary       types.SummaryTransformInstruction
	whyFit        types.WhyFitInstruction
	skillsReorder bool
	skillsToAdd   bool

	experienceReorder bool
}

func newAccumulator(resume *types.ResumeContent, analysis *types.PreAnalysisResult, job *types.JobData) *accumulator {
	return &accumulator{
		resume:         resume,
		analysis:       analysis,
		job:            job,
		bulletRefs:     resume.BulletIndex(),
		experienceRefs: resume.ExperienceIndex(),
		bullets:        make(map[string]*types.BulletTransformInstruction),
		appliedRules:   []string{},
		summary: types.SummaryTransformInstruction{
			KeywordsToAdd:     []string{},
			Differentiators:   []string{},
			SoftSkillsToWeave: []string{},
		},
		whyFit: types.WhyFitInstruction{KeyPoints: []string{}},
	}
}

func (a *accumulator) addRule(id string) {
	a.appliedRules = appendUnique(a.appliedRules, id)
}

func (a *accumulator) bullet(id string) *types.BulletTransformInstruction {
	if b, ok := a.bullets[id]; ok {
		return b
	}
	ref := a.bulletRefs[id]
	b := &types.BulletTransformInstruction{
		BulletID:          id,
		ExperienceID:      ref.ExperienceID,
		OriginalText:      a.resume.Experiences[ref.ExperienceIndex].Bullets[ref.BulletIndex].Text,
		SuggestedMetrics:  []string{},
		KeywordsToAdd:     []string{},
		SoftSkillsToWeave: []string{},
		SourceRules:       []string{},
	}
	a.bullets[id] = b
	return b
}

func (a *accumulator) applyBullet(id string, rule *types.RuleEvaluationResult, action types.TransformationAction) {
	b := a.bullet(id)
	b.SourceRules = appendUnique(b.SourceRules, rule.RuleID)
	if b.StrategicTone == "" {
		b.StrategicTone = rule.StrategicTone
	}
	b.PreserveMeaning = b.PreserveMeaning || action.PreserveOriginalMeaning

	switch action.Type {
	case types.ActionEnhance:
		b.AddMetrics = true
		b.SuggestedMetrics = appendUnique(b.SuggestedMetrics, a.suggestedMetrics(id)...)

	case types.ActionInjectKeywords:
		keywords := a.bulletKeywords(id, b.OriginalText)
		for _, kw := range keywords {
			if len(b.KeywordsToAdd) >= maxBulletKeywords {
				break
			}
			b.KeywordsToAdd = appendUnique(b.KeywordsToAdd, kw)
		}
		b.AddKeywords = b.AddKeywords || len(b.KeywordsToAdd) > 0

	case types.ActionContextualize:
		if b.CompanyContext == "" {
			b.CompanyContext = a.companyContext(b.ExperienceID)
		}
		b.AddContext = b.AddContext || b.CompanyContext != ""

	case types.ActionAddSoftSkills:
		for _, skill := range a.bulletSoftSkills(id) {
			if len(b.SoftSkillsToWeave) >= maxBulletSoftSkills {
				break
			}
			b.SoftSkillsToWeave = appendUnique(b.SoftSkillsToWeave, skill)
		}
		b.AddSoftSkills = b.AddSoftSkills || len(b.SoftSkillsToWeave) > 0

	case types.ActionHighlight:
		b.Emphasize = true
		for _, text := range a.bulletDifferentiators(id, b.ExperienceID) {
			if len(b.Differentiators) >= maxBulletDifferentiator {
				break
			}
			b.Differentiators = appendUnique(b.Differentiators, text)
		}

	case types.ActionApplyTemplate:
		if b.TemplateID == "" {
			b.TemplateID = action.TemplateID
		}
	}
}

func (a *accumulator) applySummary(rule *types.RuleEvaluationResult, action types.TransformationAction) {
	if whyFit, _ := action.Data["whyFit"].(bool); whyFit {
		a.whyFit.Generate = true
		if a.whyFit.StrategicTone == "" {
			a.whyFit.StrategicTone = rule.StrategicTone
		}
		return
	}

	s := &a.summary
	s.Rewrite = true
	if s.StrategicTone == "" {
		s.StrategicTone = rule.StrategicTone
	}
	switch action.Type {
	case types.ActionInjectKeywords:
		for _, kw := range a.missingKeywords() {
			if len(s.KeywordsToAdd) >= maxSummaryKeywords {
				break
			}
			s.KeywordsToAdd = appendUnique(s.KeywordsToAdd, kw)
		}
	case types.ActionHighlight:
		for _, text := range a.standoutDifferentiators() {
			if len(s.Differentiators) >= maxSummaryItems {
				break
			}
			s.Differentiators = appendUnique(s.Differentiators, text)
		}
	case types.ActionAddSoftSkills:
		for _, skill := range a.evidencedSoftSkills() {
			if len(s.SoftSkillsToWeave) >= maxBulletSoftSkills {
				break
			}
			s.SoftSkillsToWeave = appendUnique(s.SoftSkillsToWeave, skill)
		}
	}
}

func (a *accumulator) applySkills(action types.TransformationAction) {
	switch action.Type {
	case types.ActionReorder:
		a.skillsReorder = true
	case types.ActionInjectKeywords:
		a.skillsToAdd = true
	}
}

// suggestedMetrics returns the impact analysis' metric suggestions for a bullet
func (a *accumulator) suggestedMetrics(bulletID string) []string {
	if a.analysis.Impact == nil {
		return nil
	}
	for _, bi := range a.analysis.Impact.Bullets {
		if bi.BulletID == bulletID {
			return bi.SuggestedMetrics
		}
	}
	return nil
}

// bulletKeywords prefers the bullet's own missing keywords and falls back to the
// job-level list. Keywords the bullet already mentions are skipped.
func (a *accumulator) bulletKeywords(bulletID, text string) []string {
	var candidates []string
	if ctx := a.analysis.Context; ctx != nil {
		for _, br := range ctx.BulletRelevance {
			if br.BulletID == bulletID {
				candidates = br.MissingKeywords
				break
			}
		}
	}
	if len(candidates) == 0 {
		candidates = a.missingKeywords()
	}

	lower := strings.ToLower(text)
	out := make([]string, 0, len(candidates))
	for _, kw := range candidates {
		if strings.TrimSpace(kw) == "" || strings.Contains(lower, strings.ToLower(kw)) {
			continue
		}
		out = append(out, kw)
	}
	return out
}

func (a *accumulator) missingKeywords() []string {
	if a.analysis.Context == nil {
		return nil
	}
	return a.analysis.Context.MissingKeywords
}

// companyContext returns the effective context when the research covers the experience
func (a *accumulator) companyContext(experienceID string) string {
	company := a.analysis.Company
	if company == nil || company.IsWellKnown {
		return ""
	}
	if len(company.ExperienceIDs) > 0 && !contains(company.ExperienceIDs, experienceID) {
		return ""
	}
	return strings.TrimSpace(company.EffectiveContext)
}

// bulletSoftSkills prefers assessments evidenced by the bullet itself, then any
// moderate or strong skill.
func (a *accumulator) bulletSoftSkills(bulletID string) []string {
	var own []string
	for _, s := range a.analysis.SoftSkills {
		if s.EffectiveStrength() != types.StrengthWeak && contains(s.BulletIDs, bulletID) {
			own = append(own, s.Skill)
		}
	}
	if len(own) > 0 {
		return own
	}
	return a.evidencedSoftSkills()
}

func (a *accumulator) evidencedSoftSkills() []string {
	var out []string
	for _, s := range a.analysis.SoftSkills {
		if s.EffectiveStrength() != types.StrengthWeak {
			out = append(out, s.Skill)
		}
	}
	return out
}

func (a *accumulator) bulletDifferentiators(bulletID, experienceID string) []string {
	if a.analysis.Uniqueness == nil {
		return nil
	}
	var out []string
	for _, d := range a.analysis.Uniqueness.Differentiators {
		if d.Rarity == types.RarityCommon {
			continue
		}
		if contains(d.BulletIDs, bulletID) || (len(d.BulletIDs) == 0 && contains(d.ExperienceIDs, experienceID)) {
			out = append(out, d.Text)
		}
	}
	return out
}

// standoutDifferentiators lists rare differentiators before uncommon ones
func (a *accumulator) standoutDifferentiators() []string {
	if a.analysis.Uniqueness == nil {
		return nil
	}
	var rare, uncommon []string
	for _, d := range a.analysis.Uniqueness.Differentiators {
		switch d.Rarity {
		case types.RarityRare:
			rare = append(rare, d.Text)
		case types.RarityUncommon:
			uncommon = append(uncommon, d.Text)
		}
	}
	return append(rare, uncommon...)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// appendUnique appends items not already present, keeping first-appearance order
func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if item == "" || contains(list, item) {
			continue
		}
		list = append(list, item)
	}
	return list
}
