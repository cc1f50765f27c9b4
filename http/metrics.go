package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts workflow outcomes per handler.
type Metrics struct {
	requests *prometheus.CounterVec
	remote   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prefcenter_requests_total",
			Help: "Preference center requests by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
		remote: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prefcenter_backend_calls_total",
			Help: "Subscription backend calls by operation and result.",
		}, []string{"operation", "result"}),
	}
}

func (m *Metrics) IncRequest(workflow, outcome string) {
	if m == nil || m.requests == nil {
		return
	}

	m.requests.WithLabelValues(workflow, outcome).Inc()
}

func (m *Metrics) IncRemote(operation, result string) {
	if m == nil || m.remote == nil {
		return
	}

	m.remote.WithLabelValues(operation, result).Inc()
}
