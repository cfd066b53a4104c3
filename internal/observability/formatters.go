// Package observability provides formatted output for verbose CLI mode, structured
// logging and Prometheus metrics.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..."
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintPreAnalysis outputs a one-line digest of each sub-analysis
func (p *Printer) PrintPreAnalysis(analysis *types.PreAnalysisResult) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if analysis.Impact != nil {
		total, quantified := analysis.Impact.Counts()
		sb.WriteString(fmt.Sprintf("Impact:      %d of %d bullets quantified\n", quantified, total))
	} else {
		sb.WriteString("Impact:      unavailable\n")
	}
	if analysis.Uniqueness != nil {
		sb.WriteString(fmt.Sprintf("Uniqueness:  %d differentiators\n", len(analysis.Uniqueness.Differentiators)))
	} else {
		sb.WriteString("Uniqueness:  unavailable\n")
	}
	if analysis.Context != nil {
		sb.WriteString(fmt.Sprintf("Job match:   %.0f (%d keywords missing)\n", analysis.Context.MatchScore, len(analysis.Context.MissingKeywords)))
	} else {
		sb.WriteString("Job match:   unavailable\n")
	}
	if c := analysis.Company; c != nil {
		known := "not well known"
		if c.IsWellKnown {
			known = "well known"
		}
		sb.WriteString(fmt.Sprintf("Company:     %s (%s)\n", c.CompanyName, known))
	}
	sb.WriteString(fmt.Sprintf("Soft skills: %d assessed", len(analysis.SoftSkills)))

	p.printBox("PRE-ANALYSIS", sb.String())
}

// PrintRuleResults outputs the matched rules in priority order.
func (p *Printer) PrintRuleResults(results []types.RuleEvaluationResult) {
	var sb strings.Builder
	if len(results) == 0 {
		p.printBox("MATCHED RULES", "No rules matched")
		return
	}

	sb.WriteString(fmt.Sprintf("Matched %d rules:\n\n", len(results)))
	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s (priority %d)\n", i+1, r.RuleID, r.Priority))
		sb.WriteString(fmt.Sprintf("    Issue %d, tone %s", r.RecruiterIssue, r.StrategicTone))
		if len(r.MatchedTargets) > 0 {
			sb.WriteString(fmt.Sprintf(", %d targets", len(r.MatchedTargets)))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more rules", len(results)-maxItemsToShow))
	}

	p.printBox("MATCHED RULES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInstructions outputs the compiled per-bullet and section instructions.
func (p *Printer) PrintInstructions(instructions *types.TransformationInstructions) {
	if instructions == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tone: %s\n", instructions.OverallTone))
	sb.WriteString(fmt.Sprintf("Bullets: %d\n\n", len(instructions.Bullets)))

	count := min(len(instructions.Bullets), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := instructions.Bullets[i]
		sb.WriteString(fmt.Sprintf("• %s [%s]\n", b.BulletID, b.ImprovementLevel))

		flags := []string{}
		if b.AddMetrics {
			flags = append(flags, "+metrics")
		}
		if b.AddKeywords {
			flags = append(flags, "+keywords")
		}
		if b.AddContext {
			flags = append(flags, "+context")
		}
		if b.AddSoftSkills {
			flags = append(flags, "+soft")
		}
		if b.Emphasize {
			flags = append(flags, "emphasize")
		}
		if len(flags) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", strings.Join(flags, " ")))
		}
	}
	if len(instructions.Bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more bullets\n", len(instructions.Bullets)-maxItemsToShow))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Summary rewrite: %s\n", yesNo(instructions.Summary.Rewrite)))
	sb.WriteString(fmt.Sprintf("Why-fit:         %s\n", yesNo(instructions.WhyFit.Generate)))
	sb.WriteString(fmt.Sprintf("Skills reorder:  %s\n", yesNo(instructions.Skills.Reorder)))
	sb.WriteString(fmt.Sprintf("Experience move: %s", yesNo(instructions.ExperienceOrder.Reorder)))

	p.printBox("TRANSFORMATION INSTRUCTIONS", sb.String())
}

// PrintScore outputs the composite, every dimension and the top suggestions.
func (p *Printer) PrintScore(title string, score *types.RecruiterReadinessScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Composite: %d (%s)\n\n", score.Composite, score.Label))
	for _, dim := range types.Dimensions {
		d := score.Dimensions.Get(dim)
		sb.WriteString(fmt.Sprintf("%-19s %5.1f  x%.2f = %5.1f\n", dim, d.Raw, d.Weight, d.Weighted))
	}

	if len(score.TopSuggestions) > 0 {
		sb.WriteString("\nTop suggestions:\n")
		for _, s := range score.TopSuggestions {
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", s.Impact, s.Action))
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs before/after composites and per-dimension deltas
func (p *Printer) PrintComparison(cmp *types.ScoreComparison) {
	if cmp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Before: %d (%s)\n", cmp.Before, cmp.BeforeLabel))
	sb.WriteString(fmt.Sprintf("After:  %d (%s)\n", cmp.After, cmp.AfterLabel))
	sb.WriteString(fmt.Sprintf("Delta:  %+d\n\n", cmp.Delta))
	for _, d := range cmp.DimensionDelta {
		sb.WriteString(fmt.Sprintf("%-19s %5.1f -> %5.1f (%+.1f)\n", d.Dimension, d.Before, d.After, d.Delta))
	}

	p.printBox("SCORE COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintChanges outputs what the rewrite actually changed
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintChanges(changes types.TailoringChanges) {
	if changes.TotalChanges == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CHANGES APPLIED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bullets modified: %d (unchanged %d)\n\n", changes.BulletsModified, changes.BulletsUnchanged))

	count := min(len(changes.Bullets), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := changes.Bullets[i]
		sb.WriteString(fmt.Sprintf("- %s\n", c.Before))
		sb.WriteString(fmt.Sprintf("+ %s\n", c.After))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(changes.Bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more bullets\n", len(changes.Bullets)-maxItemsToShow))
	}

	if changes.SummaryChanged {
		sb.WriteString("\nSummary rewritten\n")
	}
	if changes.SkillsReordered {
		sb.WriteString("Skills reordered\n")
	}
	if changes.ExperienceReorder {
		sb.WriteString("Experiences reordered\n")
	}

	p.printBox("CHANGES", strings.TrimSuffix(sb.String(), "\n"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
