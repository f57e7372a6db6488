package vaultclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "vaultkv"

// status label values for requests that did not produce a classification
const (
	transportErrorLabel = "transport_error"
	unknownStatusLabel  = "unknown_status"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "requests_total",
		Help:      "Total number of Vault API requests, by HTTP method and status classification",
	}, []string{"method", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of Vault API requests, by HTTP method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// several clients may share one registry
	are := prometheus.AlreadyRegisteredError{}

	if err := reg.Register(requests); err != nil {
		if !errors.As(err, &are) {
			return nil, err
		}

		requests = are.ExistingCollector.(*prometheus.CounterVec)
	}

	if err := reg.Register(duration); err != nil {
		if !errors.As(err, &are) {
			return nil, err
		}

		duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &metrics{requests: requests, duration: duration}, nil
}

// observe is safe to call on a nil receiver, so that metrics can stay
// disabled by default
func (m *metrics) observe(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, status).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
