// Package metrics defines the custom Prometheus metrics of the todo renderer.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by the router at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo_render"

// Outcome labels shared by UpstreamRequestsTotal.
const (
	OutcomeOK              = "ok"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomeFailed          = "failed"
)

// ── Upstream API ─────────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts authenticated calls to the todo API.
// Labels:
//   - method: HTTP method of the call
//   - outcome: ok, unauthenticated, forbidden or failed
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of authenticated requests sent to the todo API, by outcome.",
	},
	[]string{"method", "outcome"},
)

// TokenRefreshTotal counts access-token refresh attempts.
// Label:
//   - result: "success" or "failure"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh attempts, by result.",
	},
	[]string{"result"},
)

// ── Sessions & rendering ─────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: login, logout or expired
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// PageRenderDuration measures how long a todo page takes to produce.
// Label:
//   - mode: "ssr" or "csr"
var PageRenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "page_render_duration_seconds",
		Help:      "Duration of todo page rendering, including the upstream fetch for SSR.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)
