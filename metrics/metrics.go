// Package metrics exposes prometheus instrumentation for the worker bootstrap
// handoff. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "poolboot"

// Build outcomes recorded by BuildFinished.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeAborted = "aborted"
)

// Metrics groups the handoff collectors.
type Metrics struct {
	buildersCreated prometheus.Counter
	tasksSent       prometheus.Counter
	tasksReceived   prometheus.Counter
	workersWaiting  prometheus.Gauge
	workerFailures  *prometheus.CounterVec
	builds          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		buildersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builders_created_total",
			Help:      "Pool builders created.",
		}),
		tasksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_sent_total",
			Help:      "Startup tasks placed on a delivery channel.",
		}),
		tasksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_received_total",
			Help:      "Startup tasks taken off a delivery channel by a worker.",
		}),
		workersWaiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_waiting",
			Help:      "Worker contexts blocked waiting for their startup task.",
		}),
		workerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_failures_total",
			Help:      "Worker contexts that terminated without entering the pool.",
		}, []string{"reason"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Finish-construction attempts by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{
		m.buildersCreated, m.tasksSent, m.tasksReceived,
		m.workersWaiting, m.workerFailures, m.builds,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) BuilderCreated() {
	if m != nil {
		m.buildersCreated.Inc()
	}
}

func (m *Metrics) TaskSent() {
	if m != nil {
		m.tasksSent.Inc()
	}
}

func (m *Metrics) TaskReceived() {
	if m != nil {
		m.tasksReceived.Inc()
	}
}

// WorkerWaiting adjusts the waiting gauge by delta (+1 on entry, -1 on exit).
func (m *Metrics) WorkerWaiting(delta float64) {
	if m != nil {
		m.workersWaiting.Add(delta)
	}
}

func (m *Metrics) WorkerFailed(reason string) {
	if m != nil {
		m.workerFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) BuildFinished(outcome string) {
	if m != nil {
		m.builds.WithLabelValues(outcome).Inc()
	}
}
