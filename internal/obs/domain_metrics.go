package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ChecksCreatedTotal counts check creation attempts by payment type and outcome.
	ChecksCreatedTotal *prometheus.CounterVec
	// ReceiptsRenderedTotal counts plain-text receipts produced.
	ReceiptsRenderedTotal prometheus.Counter
	// LoginAttemptsTotal counts login outcomes.
	LoginAttemptsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ChecksCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_created_total",
			Help:      "Count of check creation outcomes.",
		}, []string{"payment_type", "result"})
		ReceiptsRenderedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_rendered_total",
			Help:      "Total number of plain-text receipts rendered.",
		})
		LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Count of login attempts by outcome.",
		}, []string{"result"})

		ChecksCreatedTotal = register(reg, ChecksCreatedTotal)
		ReceiptsRenderedTotal = register(reg, ReceiptsRenderedTotal)
		LoginAttemptsTotal = register(reg, LoginAttemptsTotal)
	})
}

// ObserveCheckCreated records a check creation outcome when domain metrics are registered.
func ObserveCheckCreated(paymentType, result string) {
	if ChecksCreatedTotal == nil {
		return
	}
	if paymentType == "" {
		paymentType = "unknown"
	}
	ChecksCreatedTotal.WithLabelValues(paymentType, result).Inc()
}

// ObserveReceiptRendered increments the rendered receipts counter.
func ObserveReceiptRendered() {
	if ReceiptsRenderedTotal == nil {
		return
	}
	ReceiptsRenderedTotal.Inc()
}

// ObserveLogin records a login outcome.
func ObserveLogin(result string) {
	if LoginAttemptsTotal == nil {
		return
	}
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}
