// Package metrics defines all custom Prometheus metrics for the events API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry via promauto at package load; the
// router exposes them on GET /metrics alongside the HTTP metrics collected by
// the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "events"

// ── Registration metrics ─────────────────────────────────────────────────────

// RegistrationsCreatedTotal counts successfully created registrations.
var RegistrationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_created_total",
		Help:      "Total number of registrations successfully created.",
	},
)

// RegistrationsCancelledTotal counts cancelled registrations.
var RegistrationsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_cancelled_total",
		Help:      "Total number of registrations cancelled.",
	},
)

// CapacityRejectionsTotal counts registration attempts rejected because the
// event was at capacity. A spike here means demand outgrew maxParticipants.
var CapacityRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capacity_rejections_total",
		Help:      "Total number of registration attempts rejected because the event was full.",
	},
)

// FeedbackSubmittedTotal counts accepted feedback submissions.
var FeedbackSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submitted_total",
		Help:      "Total number of feedback submissions accepted.",
	},
)

// ── Mail metrics ─────────────────────────────────────────────────────────────

// MailJobsTotal counts outbound mail jobs by outcome.
// Label:
//   - result: "sent", "retried", or "dropped" (attempts exhausted)
var MailJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_jobs_total",
		Help:      "Total number of outbound mail jobs, labelled by delivery outcome.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the current length of the mail outbox queue.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of mail jobs waiting in the outbox queue.",
	},
)
