package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		sessionsStartedTotal,
		sessionsDeletedTotal,
		sessionsActive,
		turnsCompletedTotal,
		analysesCompletedTotal,
	)
}

var (
	sessionsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "practice_sessions_started_total",
			Help: "Total number of practice sessions started.",
		},
	)

	sessionsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "practice_sessions_deleted_total",
			Help: "Total number of practice sessions deleted.",
		},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "practice_sessions_active",
			Help: "Current number of in-memory practice sessions.",
		},
	)

	turnsCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "practice_turns_completed_total",
			Help: "Total number of completed roleplay turns (user message plus reply).",
		},
	)

	analysesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "practice_analyses_completed_total",
			Help: "Total number of conversation analyses generated.",
		},
	)
)

func SessionStarted() {
	sessionsStartedTotal.Inc()
	sessionsActive.Inc()
}

func SessionDeleted() {
	sessionsDeletedTotal.Inc()
	sessionsActive.Dec()
}

func TurnCompleted() { turnsCompletedTotal.Inc() }

func AnalysisCompleted() { analysesCompletedTotal.Inc() }
