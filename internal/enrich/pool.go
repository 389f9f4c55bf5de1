package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// DefaultConcurrency bounds how many articles are enriched at once when
// no limit is configured.
const DefaultConcurrency = 12

// Pool fans article enrichment out across a bounded set of goroutines.
type Pool struct {
	enricher    *Enricher
	concurrency int
	logger      *zap.Logger
}

// NewPool creates a Pool running at most concurrency enrichments at a
// time. A non-positive concurrency falls back to DefaultConcurrency.
func NewPool(enricher *Enricher, concurrency int, logger *zap.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{enricher: enricher, concurrency: concurrency, logger: logger}
}

// Process enriches every raw article and returns a slice of the same
// length where slot i holds the result for input i, or nil if that
// article failed. Failures are isolated per article and never stop the
// batch.
func (p *Pool) Process(ctx context.Context, raws []news.RawArticle) []*news.Article {
	results := make([]*news.Article, len(raws))
	if len(raws) == 0 {
		return results
	}

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for i, raw := range raws {
		wg.Add(1)
		go func(i int, raw news.RawArticle) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			metrics.IncEnrichInFlight()
			defer metrics.DecEnrichInFlight()

			article, err := p.enricher.Enrich(ctx, raw)
			if err != nil {
				p.logger.Warn("dropping article",
					zap.String("source", raw.Source),
					zap.Error(err),
				)
				return
			}
			results[i] = article
		}(i, raw)
	}
	wg.Wait()
	return results
}
