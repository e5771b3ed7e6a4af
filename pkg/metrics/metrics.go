package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Charge outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeNotDue  = "not_due"
)

var (
	// ChargeAttempts counts charge attempts by outcome
	ChargeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subscription_charge_attempts_total",
		Help: "Charge attempts by outcome",
	}, []string{"outcome"})

	// SubscriptionsOpened counts successful subscribe calls
	SubscriptionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subscriptions_opened_total",
		Help: "Subscriptions opened",
	})

	// SubscriptionsCancelled counts cancellations
	SubscriptionsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subscriptions_cancelled_total",
		Help: "Subscriptions cancelled",
	})

	// TipsRecorded counts tips written to the ledger
	TipsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tips_recorded_total",
		Help: "Tips recorded",
	})
)

// ObserveCharge increments the charge attempt counter for an outcome
func ObserveCharge(outcome string) {
	ChargeAttempts.WithLabelValues(outcome).Inc()
}
