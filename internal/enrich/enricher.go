// Package enrich turns raw scraped articles into structured, annotated
// articles by sending them through a generation backend and parsing the
// JSON the backend returns.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// Drop reasons recorded when an article fails enrichment.
const (
	DropAskFailed      = "ask_failed"
	DropTruncatedTwice = "truncated_twice"
	DropMalformed      = "malformed"
)

// Enricher asks a generation backend to annotate one article at a time.
type Enricher struct {
	asker  news.Asker
	logger *zap.Logger
}

// New creates an Enricher backed by the given asker.
func New(asker news.Asker, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{asker: asker, logger: logger}
}

// Enrich sends the raw article text to the backend and parses the reply
// into a structured article. A reply that looks cut off mid-document is
// retried exactly once with a fresh ask. Callers treat a returned error
// as a dropped article.
func (e *Enricher) Enrich(ctx context.Context, raw news.RawArticle) (*news.Article, error) {
	reply, err := e.asker.Ask(ctx, raw.Content)
	if err != nil {
		metrics.ObserveDropped(DropAskFailed)
		return nil, fmt.Errorf("asking backend for %s: %w", raw.Source, err)
	}

	article, err := parseArticle(reply)
	if err != nil && looksTruncated(err) {
		e.logger.Warn("truncated reply, asking again",
			zap.String("source", raw.Source),
			zap.Int("reply_bytes", len(reply)),
		)
		reply, err = e.asker.Ask(ctx, raw.Content)
		if err != nil {
			metrics.ObserveDropped(DropAskFailed)
			return nil, fmt.Errorf("re-asking backend for %s: %w", raw.Source, err)
		}
		article, err = parseArticle(reply)
		if err != nil {
			if looksTruncated(err) {
				metrics.ObserveDropped(DropTruncatedTwice)
			} else {
				metrics.ObserveDropped(DropMalformed)
			}
			return nil, fmt.Errorf("parsing re-asked reply for %s: %w", raw.Source, err)
		}
	} else if err != nil {
		metrics.ObserveDropped(DropMalformed)
		return nil, fmt.Errorf("parsing reply for %s: %w", raw.Source, err)
	}

	article.Source = raw.Source
	article.Content = raw.Content
	article.Dedupe()

	metrics.ObserveEnriched(raw.Source)
	e.logger.Info("article enriched",
		zap.String("source", raw.Source),
		zap.String("title", article.Title),
		zap.String("category", article.Category),
	)
	return article, nil
}

func parseArticle(reply string) (*news.Article, error) {
	var article news.Article
	if err := json.Unmarshal([]byte(stripFences(reply)), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// looksTruncated reports whether a parse error indicates the document
// ended before the JSON value was complete, which is what a reply cut
// off by the backend's token limit looks like.
func looksTruncated(err error) bool {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false
	}
	return strings.Contains(syntaxErr.Error(), "unexpected end of JSON input")
}

// stripFences removes a markdown code fence some backends wrap their
// JSON replies in.
func stripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
