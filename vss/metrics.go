package vss

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics instruments an engine. Counters always exist; they are only
// exported when a Registerer is supplied.
type metrics struct {
	sharesIssued    prometheus.Counter
	reconstructions *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		sharesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "vss",
			Name: "shares_issued_total", Help: "Protected shares produced by SplitSecret.",
		}),
		reconstructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "vss",
			Name: "reconstructions_total", Help: "Reconstruction attempts by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.sharesIssued, m.reconstructions} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("vss: register metrics: %w", err)
			}
		}
	}
	return m, nil
}

func (m *metrics) outcome(err error) {
	if err == nil {
		m.reconstructions.WithLabelValues("ok").Inc()
	} else {
		m.reconstructions.WithLabelValues("failed").Inc()
	}
}
