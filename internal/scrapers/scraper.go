// Package scrapers discovers and fetches articles from text-first news
// sites.
package scrapers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// Source discovers article URLs on a news site's front page and fetches
// their plain-text content.
type Source interface {
	// Name returns the short configuration name of the source.
	Name() string
	// Index returns the absolute URLs of the articles currently linked
	// from the front page.
	Index(ctx context.Context) ([]string, error)
	// Fetch downloads the given articles. Failed fetches are logged and
	// skipped, so the result may be shorter than the input.
	Fetch(ctx context.Context, urls []string) []news.RawArticle
}

// Config controls collector behavior for all sources.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// site is a colly-backed Source described by a front-page URL and a
// handful of CSS selectors.
type site struct {
	name         string
	baseURL      string
	linkSelector string
	// textSelectors are extracted in order and joined to form the
	// article text.
	textSelectors []string

	cfg    Config
	logger *zap.Logger
}

func newSite(name, baseURL, linkSelector string, textSelectors []string, cfg Config, logger *zap.Logger) *site {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &site{
		name:          name,
		baseURL:       baseURL,
		linkSelector:  linkSelector,
		textSelectors: textSelectors,
		cfg:           cfg,
		logger:        logger.With(zap.String("source", name)),
	}
}

func (s *site) Name() string { return s.name }

// Index visits the front page and collects every article link matched
// by the site's link selector, resolved to an absolute URL.
func (s *site) Index(ctx context.Context) ([]string, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %s: %w", s.baseURL, err)
	}

	var (
		urls []string
		seen = make(map[string]struct{})
	)
	collector := s.newCollector()
	collector.OnHTML(s.linkSelector, func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		urls = append(urls, abs)
	})

	if err := s.visit(ctx, collector, s.baseURL); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", s.name, err)
	}

	metrics.ObserveScraped(s.name, len(urls))
	s.logger.Info("front page indexed", zap.Int("articles", len(urls)))
	return urls, nil
}

// Fetch downloads each article and extracts its text. Pages that fail
// to download or yield no text are skipped.
func (s *site) Fetch(ctx context.Context, urls []string) []news.RawArticle {
	articles := make([]news.RawArticle, 0, len(urls))
	for _, articleURL := range urls {
		if ctx.Err() != nil {
			s.logger.Warn("fetch canceled", zap.Int("fetched", len(articles)))
			break
		}
		content, err := s.fetchOne(ctx, articleURL)
		if err != nil {
			s.logger.Error("fetch failed", zap.String("url", articleURL), zap.Error(err))
			continue
		}
		if content == "" {
			s.logger.Warn("fetch produced no content", zap.String("url", articleURL))
			continue
		}
		articles = append(articles, news.RawArticle{Source: articleURL, Content: content})
		s.logger.Debug("article fetched", zap.String("url", articleURL), zap.Int("bytes", len(content)))
	}
	return articles
}

func (s *site) fetchOne(ctx context.Context, articleURL string) (string, error) {
	var parts []string
	collector := s.newCollector()
	for _, selector := range s.textSelectors {
		collector.OnHTML(selector, func(e *colly.HTMLElement) {
			if text := strings.TrimSpace(e.Text); text != "" {
				parts = append(parts, text)
			}
		})
	}

	if err := s.visit(ctx, collector, articleURL); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *site) newCollector() *colly.Collector {
	collector := colly.NewCollector()
	if s.cfg.UserAgent != "" {
		collector.UserAgent = s.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	timeout := s.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	return collector
}

func (s *site) visit(ctx context.Context, collector *colly.Collector, pageURL string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("visit canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visiting %s: %w", pageURL, err)
		}
		return nil
	}
}
