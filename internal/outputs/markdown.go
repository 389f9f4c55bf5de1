package outputs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/indexes"
	"github.com/awfulsec/textnews/internal/news"
)

// MarkdownSink renders editions as human-readable markdown documents,
// one file per edition, into a flat output directory shared with the
// navigation indexes.
type MarkdownSink struct {
	dir    string
	logger *zap.Logger
}

// NewMarkdownSink creates a MarkdownSink rooted at dir.
func NewMarkdownSink(dir string, logger *zap.Logger) *MarkdownSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkdownSink{dir: dir, logger: logger}
}

// WriteEdition renders the edition and writes {dir}/{date}_{slot}.md,
// returning the path written.
func (s *MarkdownSink) WriteEdition(edition news.Edition) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, edition.Filename())
	if err := os.WriteFile(path, []byte(RenderEdition(edition)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	s.logger.Info("edition document written",
		zap.String("path", path),
		zap.Int("articles", len(edition.Articles)),
	)
	return path, nil
}

// RenderEdition renders one edition as a markdown document. Articles
// are grouped into alphabetized category sections, and every category
// and article carries an explicit anchor id matching the links the
// date TOC emits.
func RenderEdition(edition news.Edition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s News for %s\n\n", edition.TimeSlot.Title(), edition.LocalDate)
	fmt.Fprintf(&b, "Published at %s.\n", edition.LocalTime)

	byCategory := make(map[string][]news.Article)
	for _, a := range edition.Articles {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(&b, "\n<a id=%q></a>\n\n## %s\n", indexes.Slugify(category), category)
		for _, a := range byCategory[category] {
			renderArticle(&b, a)
		}
	}
	return b.String()
}

func renderArticle(b *strings.Builder, a news.Article) {
	anchor := indexes.Slugify(a.Title)
	if tag := a.SourceTag(); tag != "" {
		anchor += "---" + tag
	}
	fmt.Fprintf(b, "\n<a id=%q></a>\n\n### %s\n\n", anchor, a.Title)

	if tag := a.SourceTag(); tag != "" {
		fmt.Fprintf(b, "<small>`%s`</small> ", tag)
	}
	fmt.Fprintf(b, "*%s %s*\n\n", a.PublicationDate, a.PublicationTime)
	fmt.Fprintf(b, "%s\n", a.Summary)

	if len(a.KeyTakeaways) > 0 {
		fmt.Fprintf(b, "\n**Key takeaways**\n\n")
		for _, kt := range a.KeyTakeaways {
			fmt.Fprintf(b, "- %s\n", kt)
		}
	}
	if len(a.NamedEntities) > 0 {
		fmt.Fprintf(b, "\n**Who and what**\n\n")
		for _, e := range a.NamedEntities {
			fmt.Fprintf(b, "- **%s** (%s): %s\n", e.Name, e.WhatItIs, e.WhyRelevant)
		}
	}
	if len(a.ImportantDates) > 0 {
		fmt.Fprintf(b, "\n**Dates to know**\n\n")
		for _, d := range a.ImportantDates {
			fmt.Fprintf(b, "- **%s**: %s\n", d.Mentioned, d.WhyRelevant)
		}
	}
	if len(a.ImportantTimeframes) > 0 {
		fmt.Fprintf(b, "\n**Timeframes**\n\n")
		for _, tf := range a.ImportantTimeframes {
			fmt.Fprintf(b, "- **%s to %s**: %s\n", tf.Start, tf.End, tf.WhyRelevant)
		}
	}
	if len(a.Tags) > 0 {
		fmt.Fprintf(b, "\nTags: ")
		for i, tag := range a.Tags {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "`%s`", tag)
		}
		b.WriteString("\n")
	}
	if a.Source != "" {
		fmt.Fprintf(b, "\n[Original article](%s)\n", a.Source)
	}
}
