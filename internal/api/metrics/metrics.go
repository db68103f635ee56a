// Package metrics defines the domain Prometheus metrics of the tracker API.
// HTTP request metrics come from the echoprometheus middleware; the counters
// here record what happened to users, clients and projects.
//
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - action: "signup" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"resource"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourceChangesTotal counts successful writes.
// Labels:
//   - resource: "client" or "project"
//   - op: "create", "update" or "delete"
var ResourceChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_changes_total",
		Help:      "Total number of successful client and project writes.",
	},
	[]string{"resource", "op"},
)

// ProjectStatusChangesTotal counts status updates by target status.
var ProjectStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_status_changes_total",
		Help:      "Total number of project status changes, by new status.",
	},
	[]string{"status"},
)

// TeamMemberChangesTotal counts team membership changes.
// Label:
//   - op: "add" or "remove"
var TeamMemberChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "team_member_changes_total",
		Help:      "Total number of project team membership changes.",
	},
	[]string{"op"},
)

// ListResultSize observes how many items list endpoints return per page.
var ListResultSize = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_result_size",
		Help:      "Number of items returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
	[]string{"resource"},
)

// Outcome maps an error to the "result" label value.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
