package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiCallsLatencyMs,
		aiCallFailures,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of estimated prompt (input) tokens per model.",
		},
		[]string{"model"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"model", "success"},
	)

	aiCallFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_call_failures_total",
			Help: "Completion call failures by kind.",
		},
		[]string{"model", "kind"},
	)
)

func ObserveCompletion(model string, tokensIn, latencyMs int, success bool) {
	aiTokensIn.WithLabelValues(norm(model)).Add(float64(tokensIn))
	aiCallsLatencyMs.WithLabelValues(norm(model), strconv.FormatBool(success)).Observe(float64(latencyMs))
}

func CompletionFailed(model, kind string) {
	aiCallFailures.WithLabelValues(norm(model), kind).Inc()
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
