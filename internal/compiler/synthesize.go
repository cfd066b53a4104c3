package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// keepAsWritten is the instruction for a bullet with nothing to change
const keepAsWritten = "Keep bullet as written."

// bulletInstructions finalizes every touched bullet in résumé order
func (a *accumulator) bulletInstructions() []types.BulletTransformInstruction {
	out := make([]types.BulletTransformInstruction, 0, len(a.bullets))
	for _, exp := range a.resume.Experiences {
		for _, bullet := range exp.Bullets {
			b, ok := a.bullets[bullet.ID]
			if !ok {
				continue
			}
			instr := *b
			instr.ImprovementLevel = types.ImprovementLevelFor(instr.ActiveCategories())
			instr.RewriteInstruction = RewriteInstruction(&instr)
			out = append(out, instr)
		}
	}
	return out
}

// RewriteInstruction composes the natural-language directive for a bullet. Active
// categories are listed in the fixed order metrics, keywords, context, soft skills,
// followed by emphasis, template, tone and the preserve-meaning clause.
func RewriteInstruction(b *types.BulletTransformInstruction) string {
	var parts []string

	if b.AddMetrics {
		if len(b.SuggestedMetrics) > 0 {
			parts = append(parts, fmt.Sprintf("Quantify the outcome using metrics such as %s.", joinList(b.SuggestedMetrics)))
		} else {
			parts = append(parts, "Quantify the outcome with a concrete metric such as scale, percentage, time or cost.")
		}
	}
	if b.AddKeywords {
		parts = append(parts, fmt.Sprintf("Work in the keywords %s where they honestly apply.", joinList(b.KeywordsToAdd)))
	}
	if b.AddContext {
		parts = append(parts, fmt.Sprintf("Briefly convey that the company is %s.", strings.TrimSuffix(b.CompanyContext, ".")))
	}
	if b.AddSoftSkills {
		parts = append(parts, fmt.Sprintf("Show %s through the actions described.", joinList(b.SoftSkillsToWeave)))
	}
	if b.Emphasize {
		if len(b.Differentiators) > 0 {
			parts = append(parts, fmt.Sprintf("Lead with what sets this work apart: %s.", joinList(b.Differentiators)))
		} else {
			parts = append(parts, "Lead with what sets this work apart.")
		}
	}
	if b.TemplateID != "" {
		parts = append(parts, fmt.Sprintf("Follow the %s template.", b.TemplateID))
	}

	if len(parts) == 0 {
		return keepAsWritten
	}
	if b.StrategicTone != "" {
		parts = append(parts, fmt.Sprintf("Use a %s tone.", b.StrategicTone))
	}
	if b.PreserveMeaning {
		parts = append(parts, "Preserve the original meaning and do not invent facts.")
	}
	return strings.Join(parts, " ")
}

func (a *accumulator) summaryInstruction() types.SummaryTransformInstruction {
	s := a.summary
	if !s.Rewrite {
		return s
	}
	s.OriginalText = a.resume.Summary

	var parts []string
	if strings.TrimSpace(s.OriginalText) == "" {
		parts = append(parts, fmt.Sprintf("Write a two to three sentence summary aimed at the %s role.", a.jobTitle()))
	} else {
		parts = append(parts, fmt.Sprintf("Rewrite the summary for the %s role.", a.jobTitle()))
	}
	if len(s.KeywordsToAdd) > 0 {
		parts = append(parts, fmt.Sprintf("Include %s.", joinList(s.KeywordsToAdd)))
	}
	if len(s.Differentiators) > 0 {
		parts = append(parts, fmt.Sprintf("Open with %s.", joinList(s.Differentiators)))
	}
	if len(s.SoftSkillsToWeave) > 0 {
		parts = append(parts, fmt.Sprintf("Reflect %s.", joinList(s.SoftSkillsToWeave)))
	}
	if s.StrategicTone != "" {
		parts = append(parts, fmt.Sprintf("Use a %s tone.", s.StrategicTone))
	}
	s.RewriteInstruction = strings.Join(parts, " ")
	return s
}

func (a *accumulator) whyFitInstruction() types.WhyFitInstruction {
	w := a.whyFit
	if !w.Generate {
		return w
	}
	w.JobTitle = a.job.Title
	w.CompanyName = a.job.CompanyName

	var points []string
	points = appendUnique(points, a.standoutDifferentiators()...)
	if ctx := a.analysis.Context; ctx != nil {
		points = appendUnique(points, ctx.MatchedKeywords...)
	}
	if len(points) > maxWhyFitPoints {
		points = points[:maxWhyFitPoints]
	}
	w.KeyPoints = append([]string{}, points...)

	prompt := fmt.Sprintf("Write two sentences on why the candidate fits the %s role", a.jobTitle())
	if w.CompanyName != "" {
		prompt += " at " + w.CompanyName
	}
	prompt += "."
	if len(w.KeyPoints) > 0 {
		prompt += fmt.Sprintf(" Draw on %s.", joinList(w.KeyPoints))
	}
	if w.StrategicTone != "" {
		prompt += fmt.Sprintf(" Use a %s tone.", w.StrategicTone)
	}
	w.GenerationPrompt = prompt
	return w
}

// skillsInstruction partitions technical skills so job-required ones come first.
// The partition is stable; skills the job wants but the résumé lacks go to ToAdd.
func (a *accumulator) skillsInstruction() types.SkillsReorderInstruction {
	original := append([]string{}, a.resume.Skills.Technical...)
	instr := types.SkillsReorderInstruction{
		Original:     original,
		Reordered:    append([]string{}, original...),
		MatchedFirst: []string{},
		ToAdd:        []string{},
	}

	if a.skillsReorder {
		instr.Reorder = true
		instr.MatchedFirst, instr.Reordered = PartitionSkills(original, a.job.Skills)
	}
	if a.skillsToAdd {
		instr.ToAdd = MissingSkills(original, a.job.Skills)
	}
	return instr
}

// PartitionSkills returns the skills that match the job, and the full list with
// those moved to the front. Relative order is kept within both groups.
func PartitionSkills(skills, jobSkills []string) (matched, reordered []string) {
	wanted := make(map[string]bool, len(jobSkills))
	for _, s := range jobSkills {
		wanted[types.NormalizeSkill(s)] = true
	}
	matched = []string{}
	var rest []string
	for _, s := range skills {
		if wanted[types.NormalizeSkill(s)] {
			matched = append(matched, s)
		} else {
			rest = append(rest, s)
		}
	}
	reordered = append(append([]string{}, matched...), rest...)
	return matched, reordered
}

// MissingSkills lists job skills absent from the résumé, in job order
func MissingSkills(skills, jobSkills []string) []string {
	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[types.NormalizeSkill(s)] = true
	}
	out := []string{}
	for _, s := range jobSkills {
		key := types.NormalizeSkill(s)
		if key == "" || have[key] {
			continue
		}
		have[key] = true
		out = append(out, s)
	}
	return out
}

// experienceInstruction suggests an order by context relevance, highest first.
// Experiences without a relevance score count as zero; ties keep résumé order.
func (a *accumulator) experienceInstruction() types.ExperienceReorderInstruction {
	instr := types.ExperienceReorderInstruction{
		OriginalOrder: make([]string, 0, len(a.resume.Experiences)),
		NewOrder:      []string{},
		Scores:        []types.ExperienceRelevance{},
	}
	for _, exp := range a.resume.Experiences {
		instr.OriginalOrder = append(instr.OriginalOrder, exp.ID)
	}
	if !a.experienceReorder {
		instr.NewOrder = append(instr.NewOrder, instr.OriginalOrder...)
		return instr
	}

	scores := make(map[string]float64)
	if ctx := a.analysis.Context; ctx != nil {
		for _, er := range ctx.ExperienceRelevance {
			scores[er.ExperienceID] = er.Score
		}
	}
	for _, id := range instr.OriginalOrder {
		instr.Scores = append(instr.Scores, types.ExperienceRelevance{ExperienceID: id, Score: scores[id]})
	}

	ranked := append([]types.ExperienceRelevance{}, instr.Scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for _, r := range ranked {
		instr.NewOrder = append(instr.NewOrder, r.ExperienceID)
	}
	instr.Reorder = true
	return instr
}

func (a *accumulator) jobTitle() string {
	if strings.TrimSpace(a.job.Title) == "" {
		return "target"
	}
	return a.job.Title
}

// OverallTone returns the most frequent tone among matched rules. Ties, and an
// empty set, resolve to measured.
func OverallTone(matched []types.RuleEvaluationResult) types.StrategicTone {
	counts := map[types.StrategicTone]int{}
	for _, r := range matched {
		if r.Matched && r.StrategicTone.IsValid() {
			counts[r.StrategicTone]++
		}
	}

	best, bestCount, tied := types.ToneMeasured, 0, false
	for _, tone := range []types.StrategicTone{types.ToneConfident, types.ToneMeasured, types.ToneHumble} {
		switch n := counts[tone]; {
		case n > bestCount:
			best, bestCount, tied = tone, n, false
		case n == bestCount && n > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return types.ToneMeasured
	}
	return best
}

// joinList renders "a", "a and b" or "a, b and c"
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
