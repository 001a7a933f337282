// Package metrics exposes Prometheus instrumentation for license issuance.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "licensemaker"

// PrometheusMetrics holds the collectors updated by the issuance service
// and the expiry watch.
type PrometheusMetrics struct {
	// IssuedCounter counts issued licenses by scheme and signing algorithm.
	IssuedCounter *prometheus.CounterVec
	// FailureCounter counts rejected or failed issuances by error kind.
	FailureCounter *prometheus.CounterVec
	// DecodeCounter counts decode requests by result (ok, invalid).
	DecodeCounter *prometheus.CounterVec
	// IssueDuration observes end-to-end issuance time by algorithm.
	IssueDuration *prometheus.HistogramVec
	// ExpiringGauge reports ledger entries expiring within a window.
	ExpiringGauge *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		IssuedCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "licenses_issued_total",
			Help:      "Total number of licenses issued.",
		}, []string{"scheme", "algorithm"}),
		FailureCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issue_failures_total",
			Help:      "Total number of failed license issuances by error kind.",
		}, []string{"kind"}),
		DecodeCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "licenses_decoded_total",
			Help:      "Total number of license blobs decoded, by result.",
		}, []string{"result"}),
		IssueDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "issue_duration_seconds",
			Help:      "Time spent issuing a license, including signing.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"algorithm"}),
		ExpiringGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "licenses_expiring",
			Help:      "Number of issued licenses whose end date falls within the warning window.",
		}, []string{"window"}),
	}

	collectors := []prometheus.Collector{
		m.IssuedCounter,
		m.FailureCounter,
		m.DecodeCounter,
		m.IssueDuration,
		m.ExpiringGauge,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// RecordIssued increments the issued counter and observes the duration.
func (m *PrometheusMetrics) RecordIssued(scheme, algorithm string, seconds float64) {
	if m == nil {
		return
	}
	m.IssuedCounter.WithLabelValues(scheme, algorithm).Inc()
	m.IssueDuration.WithLabelValues(algorithm).Observe(seconds)
}

// RecordFailure increments the failure counter for kind.
func (m *PrometheusMetrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.FailureCounter.WithLabelValues(kind).Inc()
}

// Decode results.
const (
	DecodeOK      = "ok"
	DecodeInvalid = "invalid"
)

// RecordDecode counts one decode attempt. Decode failures are kept out of
// the issuance failure counter.
func (m *PrometheusMetrics) RecordDecode(ok bool) {
	if m == nil {
		return
	}
	result := DecodeOK
	if !ok {
		result = DecodeInvalid
	}
	m.DecodeCounter.WithLabelValues(result).Inc()
}

// SetExpiring sets the number of licenses expiring within window days.
func (m *PrometheusMetrics) SetExpiring(windowDays, count int) {
	if m == nil {
		return
	}
	m.ExpiringGauge.WithLabelValues(fmt.Sprintf("%dd", windowDays)).Set(float64(count))
}
