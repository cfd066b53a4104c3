package observability

import (
	"net/http"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Score phases
const (
	PhaseBaseline = "baseline"
	PhaseQuality  = "quality"
)

// Metrics holds the tailoring collectors on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	rulesMatched *prometheus.CounterVec
	composite    *prometheus.HistogramVec
	duration     prometheus.Histogram
	tokens       prometheus.Counter
}

// NewMetrics registers the tailoring collectors plus the Go runtime collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailor",
			Name:      "runs_total",
			Help:      "Tailoring runs by outcome.",
		}, []string{"outcome"}),
		rulesMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailor",
			Name:      "rules_matched_total",
			Help:      "Rule matches by rule ID.",
		}, []string{"rule_id"}),
		composite: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tailor",
			Name:      "composite_score",
			Help:      "Recruiter-readiness composite score.",
			Buckets:   []float64{40, 60, 75, 90, 100},
		}, []string{"phase"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tailor",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a tailoring run.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tailor",
			Name:      "llm_tokens_total",
			Help:      "LLM tokens spent on rewrites.",
		}),
	}
	m.registry.MustRegister(
		m.runs, m.rulesMatched, m.composite, m.duration, m.tokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRules counts the matched rules of one evaluation
func (m *Metrics) ObserveRules(results []types.RuleEvaluationResult) {
	if m == nil {
		return
	}
	for _, r := range results {
		if r.Matched {
			m.rulesMatched.WithLabelValues(r.RuleID).Inc()
		}
	}
}

// ObserveScore records a composite score for a phase
func (m *Metrics) ObserveScore(phase string, score *types.RecruiterReadinessScore) {
	if m == nil || score == nil {
		return
	}
	m.composite.WithLabelValues(phase).Observe(float64(score.Composite))
}

// ObserveRun records the outcome of a full run. result may be nil on failure.
func (m *Metrics) ObserveRun(result *types.HybridTailorResult, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if err != nil || result == nil {
		m.runs.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.runs.WithLabelValues(OutcomeSuccess).Inc()
	m.ObserveRules(result.AppliedRules)
	m.ObserveScore(PhaseBaseline, result.BaselineScore)
	m.ObserveScore(PhaseQuality, result.QualityScore)
	m.tokens.Add(float64(result.TokenUsage.TotalTokens))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
