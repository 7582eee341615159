package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "microcms"

// metrics holds the request collectors. A nil *metrics records nothing.
type metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		return nil
	}

	return &metrics{
		requests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Attempts sent to the content API by method and status code.",
		}, []string{"method", "code"})),
		retries: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "retries_total",
			Help:      "Retries scheduled after a transient failure.",
		}, []string{"method"})),
		duration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of calls including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"})),
	}
}

// register returns the collector already registered under the same
// descriptor so several clients can share one registry.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
			return existing
		}
	}

	panic(err)
}

func (m *metrics) observeAttempt(method string, status int) {
	if m == nil {
		return
	}

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	m.requests.WithLabelValues(method, code).Inc()
}

func (m *metrics) observeRetry(method string) {
	if m == nil {
		return
	}

	m.retries.WithLabelValues(method).Inc()
}

func (m *metrics) observeDuration(method string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
