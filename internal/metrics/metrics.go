// Package metrics counts generation attempts and outcomes for a corpus run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons.
const (
	ReasonDuplicate  = "duplicate"
	ReasonInvalid    = "invalid"
	ReasonUnsolvable = "unsolvable"
)

// Metrics is a nil-safe set of collectors on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	attempts *prometheus.CounterVec
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
	planner  prometheus.Histogram
}

// New registers the corpus collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rescuegen",
			Name:      "attempts_total",
			Help:      "Problem generation attempts by target split.",
		}, []string{"split"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rescuegen",
			Name:      "accepted_total",
			Help:      "Accepted problems by split.",
		}, []string{"split"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rescuegen",
			Name:      "rejected_total",
			Help:      "Rejected attempts by reason.",
		}, []string{"reason"}),
		planner: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rescuegen",
			Name:      "planner_seconds",
			Help:      "Wall time of solvability checks.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.attempts, m.accepted, m.rejected, m.planner)
	return m
}

func (m *Metrics) Attempt(split string) {
	if m != nil {
		m.attempts.WithLabelValues(split).Inc()
	}
}

func (m *Metrics) Accepted(split string) {
	if m != nil {
		m.accepted.WithLabelValues(split).Inc()
	}
}

func (m *Metrics) Rejected(reason string) {
	if m != nil {
		m.rejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) PlannerDuration(d time.Duration) {
	if m != nil {
		m.planner.Observe(d.Seconds())
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
