package scrapers

import (
	"fmt"

	"go.uber.org/zap"
)

// Source configuration names accepted in news.sources.
const (
	SourceCNNLite   = "cnnlite"
	SourceNPRText   = "nprtext"
	SourceAlJazeera = "aljazeera"
)

// NewCNNLite scrapes CNN's text-only mirror. Front-page story cards
// link to articles whose headline and body carry lite-specific classes.
func NewCNNLite(cfg Config, logger *zap.Logger) Source {
	return newSite(
		SourceCNNLite,
		"https://lite.cnn.com",
		".card--lite a[href]",
		[]string{".headline--lite", ".article--lite"},
		cfg, logger,
	)
}

// NewNPRText scrapes NPR's text-only site.
func NewNPRText(cfg Config, logger *zap.Logger) Source {
	return newSite(
		SourceNPRText,
		"https://text.npr.org",
		"ul a.topic-title[href]",
		[]string{"h1.story-title", "div.paragraphs-container"},
		cfg, logger,
	)
}

// NewAlJazeera scrapes Al Jazeera's news section.
func NewAlJazeera(cfg Config, logger *zap.Logger) Source {
	return newSite(
		SourceAlJazeera,
		"https://www.aljazeera.com/news/",
		"article a.u-clickable-card__link[href]",
		[]string{"header.article-header h1", "div.wysiwyg"},
		cfg, logger,
	)
}

// ForNames resolves configured source names to Source implementations.
// Unknown names are an error so a typo in configuration fails the run
// instead of silently thinning coverage.
func ForNames(names []string, cfg Config, logger *zap.Logger) ([]Source, error) {
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		switch name {
		case SourceCNNLite:
			sources = append(sources, NewCNNLite(cfg, logger))
		case SourceNPRText:
			sources = append(sources, NewNPRText(cfg, logger))
		case SourceAlJazeera:
			sources = append(sources, NewAlJazeera(cfg, logger))
		default:
			return nil, fmt.Errorf("unknown news source %q", name)
		}
	}
	return sources, nil
}
