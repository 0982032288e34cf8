package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink counts events by kind and source.
type PrometheusSink struct {
	total  *prometheus.CounterVec
	ingest prometheus.Counter
}

func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "content_hunter",
			Name:      "events_total",
			Help:      "Reportable search core events by kind and source.",
		}, []string{"kind", "source"}),
		ingest: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "content_hunter",
			Name:      "ingested_items_total",
			Help:      "Items merged into the canonical store.",
		}),
	}

	for _, c := range []prometheus.Collector{s.total, s.ingest} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusSink) Emit(_ context.Context, e Event) {
	s.total.WithLabelValues(string(e.Kind), e.Source).Inc()
	if e.Kind == IngestBatch {
		s.ingest.Add(float64(e.Count))
	}
}
