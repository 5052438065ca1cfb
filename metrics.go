package smbclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics records per-operation counts and latencies. A nil
// *clientMetrics records nothing.
type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// newClientMetrics registers the client collectors on reg. Returns nil if
// reg is nil. Clients sharing a registry share the collectors.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	if reg == nil {
		return nil
	}

	return &clientMetrics{
		operations: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbclient_operations_total",
				Help: "Total number of SMB client operations by operation and result",
			},
			[]string{"op", "result"}, // result: "ok", "error"
		)),
		duration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smbclient_operation_duration_seconds",
				Help:    "Duration of SMB client operations, including time spent in the engine",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"op"},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// observe records one completed operation.
func (m *clientMetrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
