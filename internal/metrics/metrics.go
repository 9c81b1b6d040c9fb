package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "http_requests_total",
			Help:      "Count of HTTP API requests by route.",
		},
		[]string{"route"},
	)

	quotesComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "quotes_computed_total",
			Help:      "Count of stay price summaries computed.",
		},
	)

	availabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "availability_checks_total",
			Help:      "Count of availability checks by outcome.",
		},
		[]string{"outcome"},
	)

	feedFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "feed_failures_total",
			Help:      "Count of external calendar feed fetch failures.",
		},
	)

	pricingFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "pricing_fallback_total",
			Help:      "Count of dates priced from apartment defaults because no period matched.",
		},
	)

	inquiriesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "adriastay",
			Name:      "inquiries_received_total",
			Help:      "Count of guest inquiries received.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			quotesComputed,
			availabilityChecks,
			feedFailures,
			pricingFallbacks,
			inquiriesReceived,
		)
	})
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}

func IncQuoteComputed() {
	quotesComputed.Inc()
}

func IncAvailabilityCheck(available bool) {
	outcome := "available"
	if !available {
		outcome = "occupied"
	}
	availabilityChecks.WithLabelValues(outcome).Inc()
}

func IncFeedFailure() {
	feedFailures.Inc()
}

func IncPricingFallback() {
	pricingFallbacks.Inc()
}

func IncInquiryReceived() {
	inquiriesReceived.Inc()
}
