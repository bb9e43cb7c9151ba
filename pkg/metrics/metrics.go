package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	ScoreComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leaderboard_score_compute_seconds",
			Help:    "Time spent computing standings for one leaderboard",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"metric", "source"}, // source: cache, store
	)

	SessionsLoggedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "study_sessions_logged_count",
			Help: "Total number of study sessions recorded",
		},
	)

	HabitToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_log_toggle_count",
			Help: "Total number of habit log toggles",
		},
		[]string{"action"}, // action: logged, unlogged
	)

	InvitationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_invitation_count",
			Help: "Total number of invitation lifecycle events",
		},
		[]string{"event"}, // event: sent, accepted, declined, expired
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the slow-query threshold",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordScoreCompute(metric, source string, duration time.Duration) {
	ScoreComputeDuration.WithLabelValues(metric, source).Observe(duration.Seconds())
}

func IncrementHabitToggle(action string) {
	HabitToggleCount.WithLabelValues(action).Inc()
}

func IncrementInvitation(event string) {
	InvitationCount.WithLabelValues(event).Inc()
}

func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
