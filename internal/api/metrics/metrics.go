// Package metrics declares the console's Prometheus metrics. They register
// with the default registry on import and are exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/schoolhub/school-console/internal/core/domain"
)

const namespace = "console"

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "connection", "malformed_token", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionTransitionsTotal counts session notifications.
// Label:
//   - kind: "login" when a user is published, "logout" when absence is
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"kind"},
)

// SessionActive is 1 while a user is logged in.
var SessionActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_active",
		Help:      "Whether a user session is currently active.",
	},
)

// StandingsComputedTotal counts student standings built.
// Label:
//   - classification: "approved", "retake", "failed"
var StandingsComputedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "standings_computed_total",
		Help:      "Total number of student standings computed, by classification.",
	},
	[]string{"classification"},
)

// UpstreamRequestDuration measures calls to the school API.
// Labels:
//   - endpoint: route template, e.g. "/notas/aluno/:id"
//   - status: HTTP status code, "0" on transport failure
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the school API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SessionListener keeps the session metrics in step with the session manager.
func SessionListener(user *domain.CurrentUser) {
	if user == nil {
		SessionTransitionsTotal.WithLabelValues("logout").Inc()
		SessionActive.Set(0)
		return
	}
	SessionTransitionsTotal.WithLabelValues("login").Inc()
	SessionActive.Set(1)
}

// RecordStandings counts each standing by its classification.
func RecordStandings(standings ...domain.StudentStanding) {
	for _, s := range standings {
		StandingsComputedTotal.WithLabelValues(string(s.Standing.Classification)).Inc()
	}
}
