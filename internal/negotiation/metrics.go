package negotiation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Negotiation directions used as metric labels.
const (
	DirectionRequest  = "request"
	DirectionResponse = "response"
)

// Negotiation outcomes used as metric labels.
const (
	OutcomeMatched   = "matched"
	OutcomeDefault   = "default"
	OutcomeNoMatch   = "no_match"
	OutcomeMalformed = "malformed"
)

// Metrics contains Prometheus metrics for content negotiation.
type Metrics struct {
	negotiationsTotal *prometheus.CounterVec
	malformedTotal    *prometheus.CounterVec
}

// NewMetrics creates negotiation metrics under the given namespace. The
// collectors are not registered; see Register.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "conneg"
	}

	return &Metrics{
		negotiationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "negotiation",
				Name:      "negotiations_total",
				Help:      "Total number of content negotiations",
			},
			[]string{"direction", "outcome", "media_type"},
		),
		malformedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "negotiation",
				Name:      "malformed_headers_total",
				Help:      "Total number of rejected malformed negotiation headers",
			},
			[]string{"header"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.negotiationsTotal, m.malformedTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordResult records the outcome of a negotiation.
func (m *Metrics) RecordResult(direction string, result Result) {
	switch {
	case result.Matched():
		m.negotiationsTotal.WithLabelValues(direction, OutcomeMatched, result.MediaType).Inc()
	case result.UsesDefault():
		m.negotiationsTotal.WithLabelValues(direction, OutcomeDefault, result.MediaType).Inc()
	default:
		m.negotiationsTotal.WithLabelValues(direction, OutcomeNoMatch, "").Inc()
	}
}

// RecordMalformed records a rejected header.
func (m *Metrics) RecordMalformed(direction, header string) {
	m.negotiationsTotal.WithLabelValues(direction, OutcomeMalformed, "").Inc()
	m.malformedTotal.WithLabelValues(header).Inc()
}
