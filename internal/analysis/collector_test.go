package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testResume() *types.ResumeContent {
	return &types.ResumeContent{
		ID:      "resume_001",
		Contact: types.Contact{Name: "Ana Silva", Email: "ana@example.com"},
		Experiences: []types.Experience{
			{ID: "exp_1", Title: "Engineer", Company: "Stone", Bullets: []types.Bullet{
				{ID: "b1", Text: "Built payment APIs"},
				{ID: "b2", Text: "Cut latency by 40%"},
			}},
		},
	}
}

func testJob() *types.JobData {
	return &types.JobData{ID: "job_001", Title: "Backend Engineer", CompanyName: "Stripe"}
}

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	sets    int
	lastKey string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memoryCache) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	m.lastKey = key
	return nil
}

func countingAnalyzers(calls *atomic.Int32) Analyzers {
	return Analyzers{
		Impact: func(_ context.Context, r *types.ResumeContent, _ *types.JobData) (*types.ImpactResult, error) {
			calls.Add(1)
			quantified := 0
			for _, exp := range r.Experiences {
				for _, b := range exp.Bullets {
					if strings.Contains(b.Text, "%") {
						quantified++
					}
				}
			}
			return &types.ImpactResult{TotalBullets: r.BulletCount(), QuantifiedBullets: quantified}, nil
		},
		Uniqueness: func(context.Context, *types.ResumeContent, *types.JobData) (*types.UniquenessResult, error) {
			calls.Add(1)
			return &types.UniquenessResult{Differentiators: []types.Differentiator{{Text: "PCI", Rarity: types.RarityRare}}}, nil
		},
		Context: func(context.Context, *types.ResumeContent, *types.JobData) (*types.ContextResult, error) {
			calls.Add(1)
			return &types.ContextResult{MatchScore: 55, MissingKeywords: []string{"kubernetes"}}, nil
		},
		Company: func(context.Context, *types.ResumeContent, *types.JobData) (*types.CompanyResearchResult, error) {
			calls.Add(1)
			return &types.CompanyResearchResult{CompanyName: "Stone", EffectiveContext: "a payments processor"}, nil
		},
		SoftSkills: func(context.Context, *types.ResumeContent, *types.JobData) ([]types.SoftSkillAssessment, error) {
			calls.Add(1)
			return []types.SoftSkillAssessment{{Skill: "leadership", EvidenceScore: 4}}, nil
		},
	}
}

func TestCollect_AllAnalyzers(t *testing.T) {
	var calls atomic.Int32
	c := NewCollector(countingAnalyzers(&calls), WithClock(func() time.Time { return fixedTime }))

	result, err := c.Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)

	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, "resume_001", result.ResumeID)
	assert.Equal(t, "job_001", result.JobID)
	assert.Equal(t, fixedTime, result.AnalyzedAt)
	require.NotNil(t, result.Impact)
	assert.Equal(t, 2, result.Impact.TotalBullets)
	assert.Equal(t, 1, result.Impact.QuantifiedBullets)
	require.NotNil(t, result.Company)
	assert.Equal(t, "Stone", result.Company.CompanyName)
	require.Len(t, result.SoftSkills, 1)
}

func TestCollect_FailingAnalyzerLeavesNil(t *testing.T) {
	var calls atomic.Int32
	analyzers := countingAnalyzers(&calls)
	analyzers.Company = func(context.Context, *types.ResumeContent, *types.JobData) (*types.CompanyResearchResult, error) {
		return nil, errors.New("research backend unavailable")
	}
	analyzers.Uniqueness = nil

	result, err := NewCollector(analyzers).Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.Nil(t, result.Company)
	assert.Nil(t, result.Uniqueness)
	assert.NotNil(t, result.Impact)
	assert.NotNil(t, result.Context)
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzers := Analyzers{
		Impact: func(ctx context.Context, _ *types.ResumeContent, _ *types.JobData) (*types.ImpactResult, error) {
			return nil, ctx.Err()
		},
	}
	_, err := NewCollector(analyzers).Collect(ctx, testResume(), testJob())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_RequiresInputs(t *testing.T) {
	c := NewCollector(Analyzers{})
	_, err := c.Collect(context.Background(), nil, testJob())
	require.Error(t, err)
	_, err = c.Collect(context.Background(), testResume(), nil)
	require.Error(t, err)
}

func TestCollect_UsesCache(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	c := NewCollector(countingAnalyzers(&calls), WithCache(cache))

	first, err := c.Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, 5, cache.sets)

	second, err := c.Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load(), "second run should be served from cache")
	assert.Equal(t, first.Impact, second.Impact)
	assert.Equal(t, first.SoftSkills, second.SoftSkills)

	edited := testResume()
	edited.Experiences[0].Bullets[0].Text = "Built payment APIs serving 10M requests"
	_, err = c.Collect(context.Background(), edited, testJob())
	require.NoError(t, err)
	assert.Equal(t, int32(10), calls.Load(), "edited résumé must miss the cache")
}

func TestCollect_CacheFailureIsBypassed(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")

	result, err := NewCollector(countingAnalyzers(&calls), WithCache(cache)).Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.NotNil(t, result.Impact)
	assert.Equal(t, int32(5), calls.Load())
}

func TestReanalyze_CarriesResumeIndependentParts(t *testing.T) {
	var calls atomic.Int32
	c := NewCollector(countingAnalyzers(&calls))

	previous := &types.PreAnalysisResult{
		Company:    &types.CompanyResearchResult{CompanyName: "Previous Co", EffectiveContext: "kept"},
		SoftSkills: []types.SoftSkillAssessment{{Skill: "mentoring", EvidenceScore: 5}},
	}
	tailored := testResume()
	tailored.Experiences[0].Bullets[0].Text = "Built payment APIs handling 30% more volume"

	result, err := c.Reanalyze(context.Background(), tailored, testJob(), previous)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "Previous Co", result.Company.CompanyName)
	assert.Equal(t, "mentoring", result.SoftSkills[0].Skill)
	assert.Equal(t, 2, result.Impact.QuantifiedBullets)

	// bundle must not alias the previous one
	result.Company.CompanyName = "changed"
	assert.Equal(t, "Previous Co", previous.Company.CompanyName)
}

func TestReanalyze_NoPreviousRunsEverything(t *testing.T) {
	var calls atomic.Int32
	_, err := NewCollector(countingAnalyzers(&calls)).Reanalyze(context.Background(), testResume(), testJob(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestCollect_SumsReportedUsage(t *testing.T) {
	charge := types.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}
	var calls atomic.Int32
	counting := countingAnalyzers(&calls)
	analyzers := Analyzers{
		Impact: func(ctx context.Context, r *types.ResumeContent, j *types.JobData) (*types.ImpactResult, error) {
			ReportUsage(ctx, charge)
			return counting.Impact(ctx, r, j)
		},
		Context: func(ctx context.Context, r *types.ResumeContent, j *types.JobData) (*types.ContextResult, error) {
			ReportUsage(ctx, charge)
			return counting.Context(ctx, r, j)
		},
		SoftSkills: func(ctx context.Context, r *types.ResumeContent, j *types.JobData) ([]types.SoftSkillAssessment, error) {
			ReportUsage(ctx, charge)
			return nil, errors.New("model refused")
		},
	}
	cache := newMemoryCache()
	c := NewCollector(analyzers, WithCache(cache))

	first, err := c.Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.Equal(t, types.TokenUsage{PromptTokens: 300, CompletionTokens: 150, TotalTokens: 450}, first.TokenUsage)

	second, err := c.Collect(context.Background(), testResume(), testJob())
	require.NoError(t, err)
	assert.Equal(t, 150, second.TokenUsage.TotalTokens, "only the uncached soft-skills call is charged")

	post, err := c.Reanalyze(context.Background(), testResume(), testJob(), first)
	require.NoError(t, err)
	assert.Equal(t, 0, post.TokenUsage.TotalTokens)

	assert.NotPanics(t, func() { ReportUsage(context.Background(), charge) })
}
