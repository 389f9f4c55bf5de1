// Package app wires the pipeline together and drives one run end to
// end: index the sources, fetch and enrich articles, assemble the
// edition, and persist the record, the document, and the navigation
// indexes.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/edition"
	"github.com/awfulsec/textnews/internal/enrich"
	"github.com/awfulsec/textnews/internal/indexes"
	"github.com/awfulsec/textnews/internal/llm"
	"github.com/awfulsec/textnews/internal/news"
	"github.com/awfulsec/textnews/internal/outputs"
	"github.com/awfulsec/textnews/internal/progress"
	"github.com/awfulsec/textnews/internal/scrapers"
)

// App owns every collaborator of one pipeline run.
type App struct {
	cfg    news.Config
	logger *zap.Logger
	clock  news.Clock
	hub    *progress.Hub
	runID  [16]byte

	sources   []scrapers.Source
	pool      *enrich.Pool
	assembler *edition.Assembler
	jsonSink  *outputs.JSONSink
	mdSink    *outputs.MarkdownSink
	merger    *indexes.Merger
}

// Option overrides a default collaborator, mainly for tests.
type Option func(*App)

// WithSources replaces the sources resolved from configuration.
func WithSources(sources ...scrapers.Source) Option {
	return func(a *App) { a.sources = sources }
}

// WithAsker replaces the generation backend client, keeping the
// configured retry policy around it.
func WithAsker(asker news.Asker) Option {
	return func(a *App) { a.pool = a.buildPool(asker) }
}

// New builds an App from configuration. The clock decides which edition
// the run produces and the hub, which may be nil, receives progress
// events.
func New(cfg news.Config, logger *zap.Logger, clock news.Clock, hub *progress.Hub, runID [16]byte, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		hub:    hub,
		runID:  runID,

		assembler: edition.NewAssembler(clock, logger),
		jsonSink:  outputs.NewJSONSink(cfg.JSONDir, clock, logger),
		mdSink:    outputs.NewMarkdownSink(cfg.MarkdownDir, logger),
		merger:    indexes.NewMerger(cfg.MarkdownDir, logger),
	}

	sources, err := scrapers.ForNames(cfg.Sources, scrapers.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.sources = sources
	a.pool = a.buildPool(llm.NewClient(cfg, llm.NewsParserTemplate(), logger))

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) buildPool(asker news.Asker) *enrich.Pool {
	retrying := llm.NewRetryAsker(asker, a.cfg.MaxRetries, a.cfg.RetryBaseDelay, a.cfg.RetryMaxDelay, a.logger)
	return enrich.NewPool(enrich.New(retrying, a.logger), a.cfg.Concurrency, a.logger)
}

// Run executes one full pipeline pass. Individual article and sink
// failures are reported but only two conditions fail the run: an output
// directory that cannot be used, and a batch where every article was
// dropped.
func (a *App) Run(ctx context.Context) error {
	start := a.clock.Now()
	a.emit(progress.Event{Stage: progress.StageRunStart})
	a.logger.Info("run starting", zap.Strings("sources", a.cfg.Sources))

	if err := a.ensureOutputDirs(); err != nil {
		a.emit(progress.Event{Stage: progress.StageRunError, Note: err.Error()})
		return err
	}

	raws := a.collect(ctx)
	results := a.pool.Process(ctx, raws)

	succeeded := 0
	for _, r := range results {
		if r == nil {
			a.emit(progress.Event{Stage: progress.StageArticleDropped})
			continue
		}
		succeeded++
		a.emit(progress.Event{Stage: progress.StageArticleEnriched})
	}
	failed := len(results) - succeeded

	if len(raws) > 0 && succeeded == 0 {
		err := fmt.Errorf("all %d articles failed enrichment", len(raws))
		a.emit(progress.Event{Stage: progress.StageRunError, Failed: int64(failed), Note: err.Error()})
		return err
	}

	ed := a.assembler.Assemble(results)
	a.emit(progress.Event{Stage: progress.StageEditionReady, Count: int64(len(ed.Articles))})

	a.persist(ed)

	a.emit(progress.Event{
		Stage:     progress.StageRunDone,
		Succeeded: int64(succeeded),
		Failed:    int64(failed),
		Dur:       a.clock.Now().Sub(start),
	})
	a.logger.Info("run finished",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.String("edition", ed.Filename()),
		zap.Duration("elapsed", a.clock.Now().Sub(start)),
	)
	return nil
}

// collect indexes and fetches every configured source. A source that
// fails to index is skipped; the run continues with the others.
func (a *App) collect(ctx context.Context) []news.RawArticle {
	var raws []news.RawArticle
	for _, source := range a.sources {
		urls, err := source.Index(ctx)
		if err != nil {
			a.logger.Error("source index failed", zap.String("source", source.Name()), zap.Error(err))
			continue
		}
		a.emit(progress.Event{Stage: progress.StageSourceIndexed, Source: source.Name(), Count: int64(len(urls))})

		fetched := source.Fetch(ctx, urls)
		a.emit(progress.Event{Stage: progress.StageSourceFetched, Source: source.Name(), Count: int64(len(fetched))})
		a.logger.Info("source collected",
			zap.String("source", source.Name()),
			zap.Int("indexed", len(urls)),
			zap.Int("fetched", len(fetched)),
		)
		raws = append(raws, fetched...)
	}
	return raws
}

// persist writes the edition record and document and merges the
// navigation indexes. Each output is independent; failures are logged
// and reported but never abort the remaining outputs.
func (a *App) persist(ed news.Edition) {
	if path, err := a.jsonSink.WriteEdition(ed); err != nil {
		a.logger.Error("json output failed", zap.Error(err))
		a.emit(progress.Event{Stage: progress.StageSinkError, Sink: "json", Note: err.Error()})
	} else {
		a.emit(progress.Event{Stage: progress.StageSinkWritten, Sink: "json", Note: path})
	}

	if path, err := a.mdSink.WriteEdition(ed); err != nil {
		a.logger.Error("markdown output failed", zap.Error(err))
		a.emit(progress.Event{Stage: progress.StageSinkError, Sink: "markdown", Note: err.Error()})
	} else {
		a.emit(progress.Event{Stage: progress.StageSinkWritten, Sink: "markdown", Note: path})
	}

	if err := a.merger.UpdateAll(ed); err != nil {
		a.logger.Error("index merge failed", zap.Error(err))
		a.emit(progress.Event{Stage: progress.StageSinkError, Sink: "index", Note: err.Error()})
	} else {
		a.emit(progress.Event{Stage: progress.StageSinkWritten, Sink: "index"})
	}
}

// ensureOutputDirs creates both output directories and probes that they
// are writable before any scraping starts.
func (a *App) ensureOutputDirs() error {
	for _, dir := range []string{a.cfg.JSONDir, a.cfg.MarkdownDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir %s: %w", dir, err)
		}
		probe := filepath.Join(dir, ".write-probe")
		if err := os.WriteFile(probe, nil, 0o644); err != nil {
			return fmt.Errorf("output dir %s is not writable: %w", dir, err)
		}
		if err := os.Remove(probe); err != nil {
			return fmt.Errorf("cleaning probe in %s: %w", dir, err)
		}
	}
	return nil
}

func (a *App) emit(evt progress.Event) {
	if a.hub == nil {
		return
	}
	evt.RunID = a.runID
	evt.TS = time.Now()
	a.hub.Emit(evt)
}
