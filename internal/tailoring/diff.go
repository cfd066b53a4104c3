package tailoring

import (
	"slices"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DiffResumes summarizes the changes between an original and a tailored résumé.
// Bullets are matched by ID and reported in the original résumé order.
func DiffResumes(original, tailored *types.ResumeContent) types.TailoringChanges {
	changes := types.TailoringChanges{Bullets: []types.BulletChange{}}
	if original == nil || tailored == nil {
		return changes
	}

	after := make(map[string]string, tailored.BulletCount())
	for _, exp := range tailored.Experiences {
		for _, b := range exp.Bullets {
			after[b.ID] = b.Text
		}
	}
	for _, exp := range original.Experiences {
		for _, b := range exp.Bullets {
			text, ok := after[b.ID]
			if !ok || text == b.Text {
				changes.BulletsUnchanged++
				continue
			}
			changes.BulletsModified++
			changes.Bullets = append(changes.Bullets, types.BulletChange{
				BulletID:     b.ID,
				ExperienceID: exp.ID,
				Before:       b.Text,
				After:        text,
			})
		}
	}

	if original.Summary != tailored.Summary {
		changes.SummaryChanged = true
		changes.Summary = &types.TextChange{Before: original.Summary, After: tailored.Summary}
	}

	if !slices.Equal(original.Skills.Technical, tailored.Skills.Technical) {
		changes.SkillsReordered = true
		changes.Skills = &types.ListChange{
			Before: slices.Clone(original.Skills.Technical),
			After:  slices.Clone(tailored.Skills.Technical),
		}
	}

	before, afterOrder := experienceIDs(original), experienceIDs(tailored)
	if !slices.Equal(before, afterOrder) {
		changes.ExperienceReorder = true
		changes.Experiences = &types.ListChange{Before: before, After: afterOrder}
	}

	changes.TotalChanges = changes.BulletsModified
	for _, changed := range []bool{changes.SummaryChanged, changes.SkillsReordered, changes.ExperienceReorder} {
		if changed {
			changes.TotalChanges++
		}
	}
	return changes
}

func experienceIDs(r *types.ResumeContent) []string {
	ids := make([]string, len(r.Experiences))
	for i, exp := range r.Experiences {
		ids[i] = exp.ID
	}
	return ids
}
