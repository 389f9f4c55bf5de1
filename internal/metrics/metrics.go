// Package metrics exposes Prometheus collectors for the news pipeline.
package metrics

import (
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articlesScrapedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_articles_scraped_total",
			Help: "Total number of articles fetched, labeled by source.",
		},
		[]string{"source"},
	)

	articlesEnrichedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_articles_enriched_total",
			Help: "Total number of articles successfully enriched, labeled by source host.",
		},
		[]string{"source"},
	)

	articlesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_articles_dropped_total",
			Help: "Total number of articles dropped during enrichment, labeled by reason.",
		},
		[]string{"reason"},
	)

	askAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_ask_attempts_total",
			Help: "Total generation-backend call attempts, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	askDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textnews_ask_duration_seconds",
			Help:    "Histogram of generation-backend call latencies.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	editionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_editions_total",
			Help: "Total number of editions assembled, labeled by time slot.",
		},
		[]string{"slot"},
	)

	enrichInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "textnews_enrich_in_flight",
			Help: "Number of enrichment tasks currently running.",
		},
	)

	indexMergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textnews_index_merges_total",
			Help: "Total index document merges, labeled by document and result.",
		},
		[]string{"document", "result"},
	)
)

// SanitizeSource sanitizes a URL to extract a lowercase hostname label.
// It returns "unknown" if the URL is invalid.
func SanitizeSource(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveScraped increments the scraped-article counter for a source.
func ObserveScraped(source string, count int) {
	if count <= 0 {
		return
	}
	articlesScrapedTotal.WithLabelValues(source).Add(float64(count))
}

// ObserveEnriched increments the enriched-article counter for a source URL.
func ObserveEnriched(sourceURL string) {
	articlesEnrichedTotal.WithLabelValues(SanitizeSource(sourceURL)).Inc()
}

// ObserveDropped increments the dropped-article counter for the given reason.
func ObserveDropped(reason string) {
	articlesDroppedTotal.WithLabelValues(reason).Inc()
}

// ObserveAskAttempt records one generation-backend call attempt.
func ObserveAskAttempt(outcome string, duration time.Duration) {
	askAttemptsTotal.WithLabelValues(outcome).Inc()
	askDurationSeconds.Observe(duration.Seconds())
}

// ObserveEdition increments the edition counter for the given time slot.
func ObserveEdition(slot string) {
	editionsTotal.WithLabelValues(slot).Inc()
}

// IncEnrichInFlight increments the in-flight enrichment gauge.
func IncEnrichInFlight() {
	enrichInFlight.Inc()
}

// DecEnrichInFlight decrements the in-flight enrichment gauge.
func DecEnrichInFlight() {
	enrichInFlight.Dec()
}

// ObserveIndexMerge records the result of one index document merge.
func ObserveIndexMerge(document, result string) {
	indexMergesTotal.WithLabelValues(document, result).Inc()
}
