package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/awfulsec/textnews/internal/progress"
)

// PrometheusSink exports pipeline progress metrics via Prometheus. It owns all
// collectors for runs started/completed and per-source article counters.
type PrometheusSink struct {
	runsStarted    prometheus.Counter
	runsCompleted  *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	sourceArticles *prometheus.CounterVec
	sinkWrites     *prometheus.CounterVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "textnews_runs_started_total",
			Help: "Total pipeline runs that have started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textnews_runs_completed_total",
			Help: "Total pipeline runs completed partitioned by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "textnews_run_duration_seconds",
			Help:    "Wall time per completed run.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"result"}),
		sourceArticles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textnews_source_articles_total",
			Help: "Articles discovered and fetched partitioned by source and stage.",
		}, []string{"source", "stage"}),
		sinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "textnews_sink_writes_total",
			Help: "Output sink writes partitioned by sink and result.",
		}, []string{"sink", "result"}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runDuration,
		s.sourceArticles,
		s.sinkWrites,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch. It is
// safe for concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
	case progress.StageRunDone:
		s.completeRun(evt, "success")
	case progress.StageRunError:
		s.completeRun(evt, "error")
	case progress.StageSourceIndexed:
		s.sourceArticles.WithLabelValues(evt.Source, "indexed").Add(float64(evt.Count))
	case progress.StageSourceFetched:
		s.sourceArticles.WithLabelValues(evt.Source, "fetched").Add(float64(evt.Count))
	case progress.StageSinkWritten:
		s.sinkWrites.WithLabelValues(evt.Sink, "success").Inc()
	case progress.StageSinkError:
		s.sinkWrites.WithLabelValues(evt.Sink, "error").Inc()
	}
}

func (s *PrometheusSink) completeRun(evt progress.Event, result string) {
	s.runsCompleted.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.runDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
