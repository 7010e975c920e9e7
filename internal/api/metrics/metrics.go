// Package metrics defines and registers all custom Prometheus metrics of the
// apartment client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed by the gateway at /metrics. Per-request HTTP metrics
// come from the echoprometheus middleware under the same namespace.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the gateway.
const Namespace = "apartment"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the backend REST API.
// Labels:
//   - endpoint: the path template of the call (e.g. "/residents/{id}/")
//   - outcome: "ok", "not_found", "http_error" or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of backend API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// BackendRequestDuration measures the round trip of a backend API call.
// Label:
//   - endpoint: the path template of the call
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts made through the gateway.
// Label:
//   - result: "ok", "invalid" (form rejected) or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks the application contexts currently held by the gateway.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "active_sessions",
		Help:      "Current number of open application contexts.",
	},
)

// ScreenLoadsTotal counts screen loads.
// Labels:
//   - screen: the route name of the screen (e.g. "Residents")
//   - result: "ok", "error" or "stale"
var ScreenLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "screen_loads_total",
		Help:      "Total number of screen loads, by screen and result.",
	},
	[]string{"screen", "result"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatMessagesTotal counts chat messages by direction.
// Label:
//   - direction: "sent" (appended to the store) or "dropped" (send failed)
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages handled by the feed, by direction.",
	},
	[]string{"direction"},
)

// ChatSubscriptions tracks the chat feeds currently open.
var ChatSubscriptions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "chat_subscriptions",
		Help:      "Current number of open chat room subscriptions.",
	},
)

// ChatQueueDepth tracks the outbound messages waiting in each send worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ChatQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "chat_queue_depth",
		Help:      "Current number of chat messages pending in each send worker channel.",
	},
	[]string{"worker_id"},
)
