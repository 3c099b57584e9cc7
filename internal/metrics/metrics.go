// Package metrics exposes Prometheus counters and histograms for the portal.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	BookingCreated   = "created"
	BookingDuplicate = "duplicate"
	PaymentRecorded  = "recorded"
	PaymentReverted  = "compensated"
	OutcomeError     = "error"
	IntentCreated    = "created"
)

type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	bookings *prometheus.CounterVec
	payments *prometheus.CounterVec
	intents  *prometheus.CounterVec
}

// New registers the portal collectors on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "payments_total",
			Help:      "Payment recordings by outcome",
		}, []string{"outcome"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "payment_intents_total",
			Help:      "Payment intents requested from the provider by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency, m.bookings, m.payments, m.intents)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveIntent(outcome string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(outcome).Inc()
}
