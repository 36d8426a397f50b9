package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ReferralsCreated counts referral records inserted.
	ReferralsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referrals_created_total",
			Help: "Total number of referral records created",
		},
	)

	// ReferralEmails counts referral notification sends by outcome (sent, error, disabled).
	ReferralEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_emails_total",
			Help: "Total number of referral notification emails by outcome",
		},
		[]string{"status"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ReferralsCreated, ReferralEmails)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncReferralsCreated increments the created-referrals counter.
func IncReferralsCreated() {
	ReferralsCreated.Inc()
}

// IncReferralEmails increments the referral email counter for the given outcome (sent, error, disabled).
func IncReferralEmails(status string) {
	ReferralEmails.WithLabelValues(status).Inc()
}
