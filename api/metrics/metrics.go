package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK          = "ok"
	OutcomeStripeError = "stripe_error"
	OutcomeError       = "error"
)

var (
	// GatewayRequestsTotal counts Stripe API calls by gateway operation and outcome.
	GatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total Stripe API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	// GatewayDuration tracks Stripe API call latency.
	GatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "billing",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Stripe API call duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// SubscriptionOperationsTotal counts lifecycle operations by outcome.
	SubscriptionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Subsystem: "subscriptions",
		Name:      "operations_total",
		Help:      "Subscription lifecycle operations by operation and outcome.",
	}, []string{"operation", "outcome"})
)
