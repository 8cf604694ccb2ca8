package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"motk/internal/config"
)

const defaultNamespace = "motk"

// Metrics tracks entity store activity.
type Metrics struct {
	operations    *prometheus.CounterVec
	conflicts     *prometheus.CounterVec
	sheetDuration *prometheus.HistogramVec
}

// New constructs the collectors and registers them on reg. The namespace
// prefixes every metric name; empty means "motk".
func New(reg prometheus.Registerer, namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_operations_total",
			Help:      "Entity store operations by terminal outcome",
		}, []string{"entity_type", "operation", "outcome"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_conflicts_total",
			Help:      "Compare-and-swap rejections by entity type and field",
		}, []string{"entity_type", "field"}),
		sheetDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sheet_request_duration_seconds",
			Help:      "Backing sheet round-trip latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.conflicts, m.sheetDuration)
	}
	return m
}

// NewFromConfig registers collectors on the default registerer when metrics
// are enabled, and returns nil (record nothing) when they are not.
func NewFromConfig(cfg *config.Config) *Metrics {
	if cfg == nil || !cfg.Metrics.Enabled {
		return nil
	}
	return New(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
}

// RecordOperation counts one store operation reaching a terminal outcome.
func (m *Metrics) RecordOperation(entityType, operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(entityType, operation, outcome).Inc()
}

// RecordConflict counts one rejected compare-and-swap write.
func (m *Metrics) RecordConflict(entityType, field string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(entityType, field).Inc()
}

// ObserveSheetRequest records the latency of one backing store call.
func (m *Metrics) ObserveSheetRequest(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sheetDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
