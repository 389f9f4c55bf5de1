package indexes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// Merger applies edition merges to the navigation documents kept in one
// markdown output directory.
type Merger struct {
	dir    string
	logger *zap.Logger
}

// NewMerger creates a Merger writing under dir.
func NewMerger(dir string, logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{dir: dir, logger: logger}
}

// UpdateDateTOC merges the edition into its per-date table of contents,
// {dir}/{date}.md.
func (m *Merger) UpdateDateTOC(edition news.Edition) error {
	return m.update(edition.LocalDate+".md", "date_toc", edition, mergeDateTOC)
}

// UpdateManifest merges the edition into the SUMMARY.md navigation
// manifest.
func (m *Merger) UpdateManifest(edition news.Edition) error {
	return m.update("SUMMARY.md", "manifest", edition, mergeManifest)
}

// UpdateChronicle merges the edition into the chronological
// daily_news.md index.
func (m *Merger) UpdateChronicle(edition news.Edition) error {
	return m.update("daily_news.md", "chronicle", edition, mergeChronicle)
}

// UpdateAll runs all three merges. Each document is merged independently
// and a failure in one does not stop the others; the returned error
// joins whatever failed.
func (m *Merger) UpdateAll(edition news.Edition) error {
	return errors.Join(
		m.UpdateDateTOC(edition),
		m.UpdateManifest(edition),
		m.UpdateChronicle(edition),
	)
}

func (m *Merger) update(filename, document string, edition news.Edition, merge func(string, news.Edition) string) error {
	path := filepath.Join(m.dir, filename)

	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.ObserveIndexMerge(document, "error")
		return fmt.Errorf("reading %s: %w", path, err)
	}

	before := string(raw)
	after := merge(before, edition)
	if after == before {
		metrics.ObserveIndexMerge(document, "noop")
		m.logger.Debug("index already current",
			zap.String("document", document),
			zap.String("path", path),
		)
		return nil
	}

	if err := os.WriteFile(path, []byte(after), 0o644); err != nil {
		metrics.ObserveIndexMerge(document, "error")
		return fmt.Errorf("writing %s: %w", path, err)
	}

	metrics.ObserveIndexMerge(document, "updated")
	m.logger.Info("index updated",
		zap.String("document", document),
		zap.String("path", path),
		zap.String("date", edition.LocalDate),
		zap.String("slot", string(edition.TimeSlot)),
	)
	return nil
}
