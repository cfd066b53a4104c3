package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintPreAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPreAnalysis(&types.PreAnalysisResult{
		Impact: &types.ImpactResult{Bullets: []types.BulletImpact{
			{BulletID: "b1", HasMetrics: true},
			{BulletID: "b2"},
		}},
		Context: &types.ContextResult{MatchScore: 62, MissingKeywords: []string{"kafka"}},
		Company: &types.CompanyResearchResult{CompanyName: "Stone"},
	})
	output := buf.String()

	assert.Contains(t, output, "PRE-ANALYSIS")
	assert.Contains(t, output, "1 of 2 bullets quantified")
	assert.Contains(t, output, "Uniqueness:  unavailable")
	assert.Contains(t, output, "62 (1 keywords missing)")
	assert.Contains(t, output, "Stone (not well known)")
}

func TestPrintRuleResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRuleResults([]types.RuleEvaluationResult{
		{RuleID: "impact-missing-metrics", Priority: 10, RecruiterIssue: types.IssueImpact, StrategicTone: types.ToneConfident, MatchedTargets: []string{"b1", "b2"}},
		{RuleID: "keywords-missing", Priority: 20, RecruiterIssue: types.IssueCustomization, StrategicTone: types.ToneMeasured},
	})
	output := buf.String()

	assert.Contains(t, output, "Matched 2 rules")
	assert.Contains(t, output, "#1  impact-missing-metrics (priority 10)")
	assert.Contains(t, output, "Issue 2, tone confident, 2 targets")
	assert.Contains(t, output, "#2  keywords-missing")
}

func TestPrintRuleResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRuleResults(nil)
	assert.Contains(t, buf.String(), "No rules matched")
}

func TestPrintInstructions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInstructions(&types.TransformationInstructions{
		OverallTone: types.ToneMeasured,
		Bullets: []types.BulletTransformInstruction{
			{BulletID: "b1", AddMetrics: true, AddKeywords: true, ImprovementLevel: types.ImprovementMajor},
			{BulletID: "b2", Emphasize: true, ImprovementLevel: types.ImprovementNone},
		},
		Summary: types.SummaryTransformInstruction{Rewrite: true},
	})
	output := buf.String()

	assert.Contains(t, output, "TRANSFORMATION INSTRUCTIONS")
	assert.Contains(t, output, "Tone: measured")
	assert.Contains(t, output, "• b1 [major]")
	assert.Contains(t, output, "[+metrics +keywords]")
	assert.Contains(t, output, "[emphasize]")
	assert.Contains(t, output, "Summary rewrite: yes")
	assert.Contains(t, output, "Why-fit:         no")
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := &types.RecruiterReadinessScore{
		Composite: 47,
		Label:     types.LabelGettingThere,
		TopSuggestions: []types.Suggestion{
			{Dimension: types.DimensionImpact, Action: "Add metrics to 5 of 5 bullets", Impact: types.ImpactHigh},
		},
	}
	score.Dimensions.Set(types.DimensionImpact, types.DimensionScore{Raw: 0, Weight: 0.3})

	p.PrintScore("BASELINE SCORE", score)
	output := buf.String()

	assert.Contains(t, output, "BASELINE SCORE")
	assert.Contains(t, output, "Composite: 47 (getting_there)")
	assert.Contains(t, output, "impact")
	assert.Contains(t, output, "[high] Add metrics to 5 of 5 bullets")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintComparison(&types.ScoreComparison{
		Before: 47, After: 65, Delta: 18,
		BeforeLabel: types.LabelGettingThere, AfterLabel: types.LabelGood,
		DimensionDelta: []types.DimensionComparison{{Dimension: types.DimensionImpact, Before: 0, After: 60, Delta: 60}},
	})
	output := buf.String()

	assert.Contains(t, output, "Delta:  +18")
	assert.Contains(t, output, "(+60.0)")
}

func TestPrintChanges(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChanges(types.TailoringChanges{
		BulletsModified: 1,
		Bullets:         []types.BulletChange{{BulletID: "b1", Before: "Built APIs", After: "Built APIs serving 3k rps"}},
		SummaryChanged:  true,
		TotalChanges:    2,
	})
	output := buf.String()

	assert.Contains(t, output, "- Built APIs")
	assert.Contains(t, output, "+ Built APIs serving 3k rps")
	assert.Contains(t, output, "Summary rewritten")
}

func TestPrintChanges_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChanges(types.TailoringChanges{})
	assert.Contains(t, buf.String(), "NO CHANGES APPLIED")
}

func TestNilInputsPrintNothing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPreAnalysis(nil)
	p.PrintInstructions(nil)
	p.PrintScore("SCORE", nil)
	p.PrintComparison(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
