// Package metrics defines and registers the custom Prometheus metrics of the
// admin console. It is the single source of truth for metric names, labels,
// and help strings. All metrics live on the default registry and are served
// under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashblogger"

// ── Mirror metrics ────────────────────────────────────────────────────────────

// MirrorUsers tracks the number of records currently held in the local mirror.
var MirrorUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mirror_users",
		Help:      "Number of user records in the local mirror.",
	},
)

// MirrorNotificationsTotal counts change notifications seen by the synchronizer.
// Labels:
//   - kind: "insert", "update" or "delete"
//   - result: "applied" or "ignored"
var MirrorNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_notifications_total",
		Help:      "Total number of change notifications, by kind and whether they changed the mirror.",
	},
	[]string{"kind", "result"},
)

// MirrorSnapshotLoadsTotal counts initial snapshot loads.
// Label:
//   - mode: "full", "partial" or "empty"
var MirrorSnapshotLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_snapshot_loads_total",
		Help:      "Total number of snapshot loads, by the mode that succeeded.",
	},
	[]string{"mode"},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// UserWritesTotal counts admin-initiated writes to the users collection.
// Labels:
//   - op: "create", "update" or "delete"
//   - result: "ok" or "error"
var UserWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_writes_total",
		Help:      "Total number of admin writes to user records.",
	},
	[]string{"op", "result"},
)

// LiveConnections tracks the number of open dashboard WebSocket connections.
var LiveConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Current number of connected live dashboards.",
	},
)

// OpenDashboards tracks the number of admins holding dashboard view state.
var OpenDashboards = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_dashboards",
		Help:      "Current number of admins with an open dashboard.",
	},
)

// FramesPushedTotal counts frames sent to live dashboards.
// Label:
//   - part: "stats" or "table"
var FramesPushedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_pushed_total",
		Help:      "Total number of dashboard frames pushed, by part.",
	},
	[]string{"part"},
)

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts completed or failed registrations.
// Labels:
//   - method: "email" or "google"
//   - result: "ok", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by method and outcome.",
	},
	[]string{"method", "result"},
)

// RegistrationDuration measures how long the registration flow takes end to end.
var RegistrationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registration_duration_seconds",
		Help:      "Duration of the registration flow from validation to profile write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// VerificationJobsTotal counts verification mail jobs handed to the broker.
// Label:
//   - result: "published", "dropped" or "error"
var VerificationJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_jobs_total",
		Help:      "Total number of verification mail jobs, by outcome.",
	},
	[]string{"result"},
)
