package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for request dispatch.
type Metrics struct {
	Requests         *prometheus.CounterVec   // labels: op, outcome={ok,error}
	DispatchDuration *prometheus.HistogramVec // labels: op
	InFlight         prometheus.Gauge
	DiscardedReplies prometheus.Counter
}

// NewMetrics creates the worker metrics and registers them with reg. A nil
// reg registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geofield",
			Subsystem: "worker",
			Name:      "requests_total",
			Help:      "Requests handled by operation and outcome.",
		}, []string{"op", "outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geofield",
			Subsystem: "worker",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent executing a request.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geofield",
			Subsystem: "worker",
			Name:      "in_flight",
			Help:      "Requests currently executing.",
		}),
		DiscardedReplies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geofield",
			Subsystem: "worker",
			Name:      "discarded_replies_total",
			Help:      "Replies that arrived after their caller gave up.",
		}),
	}
	reg.MustRegister(m.Requests, m.DispatchDuration, m.InFlight, m.DiscardedReplies)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
