// Package metrics collects and exposes Prometheus metrics for the stores
// and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Recorder is what stores and middleware depend on.
type Recorder interface {
	RecordBooking(outcome string)
	RecordTransition(to string, outcome string)
	RecordAuth(op string, outcome string)
	RecordFetchFailure(store string)
	ObserveBackend(op string, d time.Duration)
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	bookings       *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	auth           *prometheus.CounterVec
	fetchFail      *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	httpStatus     *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homebarber_bookings_total",
			Help: "Booking requests by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homebarber_appointment_transitions_total",
			Help: "Appointment status transitions by target status and outcome.",
		}, []string{"to", "outcome"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homebarber_auth_attempts_total",
			Help: "Login and registration attempts by outcome.",
		}, []string{"op", "outcome"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homebarber_fetch_fail_total",
			Help: "Reference data and appointment fetch failures by store.",
		}, []string{"store"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homebarber_backend_latency_seconds",
			Help:    "Latency of store backend calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homebarber_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.bookings,
		c.transitions,
		c.auth,
		c.fetchFail,
		c.backendLatency,
		c.httpStatus,
	)

	return c
}

func (c *Collector) RecordBooking(outcome string) {
	c.bookings.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTransition(to string, outcome string) {
	c.transitions.WithLabelValues(to, outcome).Inc()
}

func (c *Collector) RecordAuth(op string, outcome string) {
	c.auth.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordFetchFailure(store string) {
	c.fetchFail.WithLabelValues(store).Inc()
}

func (c *Collector) ObserveBackend(op string, d time.Duration) {
	c.backendLatency.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop discards everything. Stores fall back to it when no recorder is set.
type Nop struct{}

func (Nop) RecordBooking(string)                 {}
func (Nop) RecordTransition(string, string)      {}
func (Nop) RecordAuth(string, string)            {}
func (Nop) RecordFetchFailure(string)            {}
func (Nop) ObserveBackend(string, time.Duration) {}
func (Nop) RecordHTTPStatus(int)                 {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
