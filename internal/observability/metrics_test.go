package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRun(t *testing.T) {
	m := NewMetrics()

	m.ObserveRun(&types.HybridTailorResult{
		AppliedRules: []types.RuleEvaluationResult{
			{RuleID: "impact-missing-metrics", Matched: true},
			{RuleID: "keywords-missing", Matched: false},
		},
		BaselineScore: &types.RecruiterReadinessScore{Composite: 47},
		QualityScore:  &types.RecruiterReadinessScore{Composite: 65},
		TokenUsage:    types.TokenUsage{TotalTokens: 1200},
	}, nil, 3*time.Second)
	m.ObserveRun(nil, errors.New("rewrite failed"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rulesMatched.WithLabelValues("impact-missing-metrics")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.rulesMatched.WithLabelValues("keywords-missing")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.tokens))
	assert.Equal(t, 2, testutil.CollectAndCount(m.composite))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(nil, nil, time.Second)
		m.ObserveRules([]types.RuleEvaluationResult{{RuleID: "x", Matched: true}})
		m.ObserveScore(PhaseBaseline, &types.RecruiterReadinessScore{})
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveScore(PhaseQuality, &types.RecruiterReadinessScore{Composite: 80})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tailor_composite_score_count{phase="quality"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
