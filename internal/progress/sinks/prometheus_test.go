package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/awfulsec/textnews/internal/progress"
)

// TestPrometheusSinkRecordsMetrics ensures counters and histograms are incremented from events.
func TestPrometheusSinkRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	runID := progress.UUIDToBytes(uuid.New())
	batch := []progress.Event{
		{RunID: runID, TS: time.Now(), Stage: progress.StageRunStart},
		{
			RunID:  runID,
			TS:     time.Now().Add(10 * time.Second),
			Stage:  progress.StageSourceFetched,
			Source: "cnnlite",
			Count:  24,
			Dur:    200 * time.Millisecond,
		},
		{
			RunID: runID,
			TS:    time.Now().Add(12 * time.Second),
			Stage: progress.StageSinkWritten,
			Sink:  "json",
		},
		{RunID: runID, TS: time.Now().Add(15 * time.Second), Stage: progress.StageRunDone, Dur: 15 * time.Second},
	}

	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Equal(t, 1.0, testutil.ToFloat64(sink.runsStarted))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.runsCompleted.WithLabelValues("success")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.runsCompleted.WithLabelValues("error")))

	require.InDelta(
		t,
		24.0,
		testutil.ToFloat64(sink.sourceArticles.WithLabelValues("cnnlite", "fetched")),
		1e-9,
	)
	require.Equal(t, 1.0, testutil.ToFloat64(sink.sinkWrites.WithLabelValues("json", "success")))
	require.Equal(t, 1, testutil.CollectAndCount(sink.runDuration, "textnews_run_duration_seconds"))
}
