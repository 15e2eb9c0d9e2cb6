package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DonationsInitiated counts donations accepted by the initiation endpoint
var DonationsInitiated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "donations_initiated_total",
	Help: "Number of donations created in pending state",
})

// SettlementsTotal counts settlement transactions by outcome
var SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "settlements_total",
	Help: "Number of donations moved to a terminal state, by outcome",
}, []string{"outcome"})

// WebhookEventsTotal counts webhook deliveries by handling result
var WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "webhook_events_total",
	Help: "Number of gateway webhook deliveries received, by result",
}, []string{"result"})

// SettlementDuration observes how long the settlement transaction takes
var SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "settlement_duration_seconds",
	Help:    "Duration of the settlement database transaction",
	Buckets: prometheus.DefBuckets,
})
