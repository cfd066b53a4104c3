package tailoring

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ApplyRewrite returns a new résumé with the rewrite applied. Bullet texts are
// taken only for bullets the instructions asked to change; the IDs of any other
// rewritten bullets are returned as dropped. Skills and experience order follow
// the instruction suggestions when they are a permutation of the current lists.
func ApplyRewrite(
	resume *types.ResumeContent,
	instructions *types.TransformationInstructions,
	response *types.RewriteResponse,
) (tailored *types.ResumeContent, dropped []string) {
	tailored = resume.Clone()
	dropped = []string{}
	if tailored == nil || instructions == nil {
		return tailored, dropped
	}

	allowed := make(map[string]bool, len(instructions.Bullets))
	for _, b := range instructions.Bullets {
		allowed[b.BulletID] = true
	}

	if response != nil {
		index := tailored.BulletIndex()
		for _, rb := range response.Bullets {
			ref, ok := index[rb.BulletID]
			text := strings.TrimSpace(rb.Text)
			if !ok || !allowed[rb.BulletID] || text == "" {
				dropped = append(dropped, rb.BulletID)
				continue
			}
			bullet := &tailored.Experiences[ref.ExperienceIndex].Bullets[ref.BulletIndex]
			if bullet.Text != text {
				bullet.Text = text
				bullet.IsModified = true
			}
		}

		if instructions.Summary.Rewrite {
			if summary := strings.TrimSpace(response.Summary); summary != "" {
				tailored.Summary = summary
			}
		}
	}

	if instructions.Skills.Reorder && samePermutation(tailored.Skills.Technical, instructions.Skills.Reordered) {
		tailored.Skills.Technical = append([]string{}, instructions.Skills.Reordered...)
	}

	if instructions.ExperienceOrder.Reorder {
		tailored.Experiences = reorderExperiences(tailored.Experiences, instructions.ExperienceOrder.NewOrder)
	}
	return tailored, dropped
}

// reorderExperiences applies order when it names every experience exactly once
func reorderExperiences(experiences []types.Experience, order []string) []types.Experience {
	ids := make([]string, len(experiences))
	byID := make(map[string]types.Experience, len(experiences))
	for i, exp := range experiences {
		ids[i] = exp.ID
		byID[exp.ID] = exp
	}
	if !samePermutation(ids, order) {
		return experiences
	}
	out := make([]types.Experience, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
