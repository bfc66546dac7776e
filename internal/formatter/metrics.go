package formatter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operations used as metric labels.
const (
	OperationRead  = "read"
	OperationWrite = "write"
)

// Metrics contains Prometheus metrics for formatter operations.
type Metrics struct {
	operationsTotal *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates formatter metrics under namespace. The collectors are
// not registered; see Register.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "conneg"
	}

	return &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "formatter",
				Name:      "operations_total",
				Help:      "Total number of formatter read and write operations",
			},
			[]string{"formatter", "operation", "media_type", "charset"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "formatter",
				Name:      "errors_total",
				Help:      "Total number of failed formatter operations",
			},
			[]string{"formatter", "operation"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.operationsTotal, m.errorsTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordOperation records a formatter read or write and its outcome.
func (m *Metrics) RecordOperation(formatter, operation, mediaType, charset string, err error) {
	m.operationsTotal.WithLabelValues(formatter, operation, mediaType, charset).Inc()
	if err != nil {
		m.errorsTotal.WithLabelValues(formatter, operation).Inc()
	}
}
