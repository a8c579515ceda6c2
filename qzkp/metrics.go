package qzkp

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics instruments an engine. Counters always exist; they are only
// exported when a Registerer is supplied.
type metrics struct {
	proofsGenerated prometheus.Counter
	verifications   *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		proofsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "qzkp",
			Name: "proofs_generated_total", Help: "Proof transcripts generated.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "qzkp",
			Name: "verifications_total", Help: "Verification verdicts by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "qzkp",
			Name: "cache_hits_total", Help: "Verifications served from the result cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "axiomtrust", Subsystem: "qzkp",
			Name: "cache_misses_total", Help: "Verifications computed from scratch.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.proofsGenerated, m.verifications, m.cacheHits, m.cacheMisses,
		} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("qzkp: register metrics: %w", err)
			}
		}
	}
	return m, nil
}

func (m *metrics) verdict(ok bool) {
	if ok {
		m.verifications.WithLabelValues("accepted").Inc()
	} else {
		m.verifications.WithLabelValues("rejected").Inc()
	}
}
