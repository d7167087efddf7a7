// Package metrics exports QRZ session and lookup counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// Metrics implements client.Observer on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	logins         *prometheus.CounterVec
	loginDuration  prometheus.Histogram
	sessionExpired prometheus.Counter
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

var _ client.Observer = (*Metrics)(nil)

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrz",
			Name:      "logins_total",
			Help:      "Login requests by outcome.",
		}, []string{"outcome"}),
		loginDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qrz",
			Name:      "login_duration_seconds",
			Help:      "Duration of login requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qrz",
			Name:      "session_expired_total",
			Help:      "Data requests rejected for an expired or invalid session.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrz",
			Name:      "lookups_total",
			Help:      "Lookups by record kind and outcome.",
		}, []string{"kind", "outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qrz",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of lookups including any login.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(m.logins, m.loginDuration, m.sessionExpired, m.lookups, m.lookupDuration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LoginCompleted implements client.Observer.
func (m *Metrics) LoginCompleted(err error, d time.Duration) {
	m.logins.WithLabelValues(Outcome(err)).Inc()
	m.loginDuration.Observe(d.Seconds())
}

// SessionExpired implements client.Observer.
func (m *Metrics) SessionExpired() {
	m.sessionExpired.Inc()
}

// LookupCompleted implements client.Observer.
func (m *Metrics) LookupCompleted(kind string, err error, d time.Duration) {
	m.lookups.WithLabelValues(kind, Outcome(err)).Inc()
	m.lookupDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, client.ErrNotFound):
		return "not_found"
	case errors.Is(err, client.ErrAuthenticationFailed):
		return "auth_failed"
	case errors.Is(err, client.ErrSubscriptionRequired):
		return "subscription_required"
	case errors.Is(err, client.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, client.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, client.ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
