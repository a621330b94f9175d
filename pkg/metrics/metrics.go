package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "halcyon", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "halcyon", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	NewsletterProvider = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "halcyon", Name: "newsletter_provider_total", Help: "Newsletter provider calls by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	InquiryRelay = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "halcyon", Name: "inquiry_relay_total", Help: "Sponsor inquiry relay attempts by outcome."},
		[]string{"outcome"},
	)
	FeedImported = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "halcyon", Name: "feed_items_imported_total", Help: "Editorial feed items imported by feedsync."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(NewsletterProvider)
	reg.MustRegister(InquiryRelay)
	reg.MustRegister(FeedImported)
}
