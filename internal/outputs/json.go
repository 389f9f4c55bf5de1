// Package outputs persists assembled editions: a JSON record per
// edition for machine consumers and a markdown document for readers.
package outputs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/news"
)

// JSONSink writes edition records under a date-partitioned directory
// tree: {dir}/{date}/{slot}.json.
type JSONSink struct {
	dir    string
	clock  news.Clock
	logger *zap.Logger
}

// NewJSONSink creates a JSONSink rooted at dir.
func NewJSONSink(dir string, clock news.Clock, logger *zap.Logger) *JSONSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONSink{dir: dir, clock: clock, logger: logger}
}

// WriteEdition serializes the edition and writes it to its dated
// directory, creating directories as needed. It returns the path
// written.
//
// An evening edition that slips past midnight, running at 23:59:59 or
// later, is filed under the previous day so the edition stays grouped
// with the news day it covers; in that case the file is named after
// yesterday's date instead of the slot.
func (s *JSONSink) WriteEdition(edition news.Edition) (string, error) {
	raw, err := json.Marshal(edition)
	if err != nil {
		return "", fmt.Errorf("marshaling edition: %w", err)
	}

	date := edition.LocalDate
	name := string(edition.TimeSlot) + ".json"
	if edition.TimeSlot == news.SlotEvening && pastMidnightCutoff(s.clock.Now()) {
		yesterday := s.clock.Now().AddDate(0, 0, -1).Format("2006-01-02")
		date = yesterday
		name = yesterday + ".json"
	}

	dir := filepath.Join(s.dir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	s.logger.Info("edition record written",
		zap.String("path", path),
		zap.Int("articles", len(edition.Articles)),
	)
	return path, nil
}

// pastMidnightCutoff reports whether the wall clock is in the final
// second of the day.
func pastMidnightCutoff(now time.Time) bool {
	return now.Hour() == 23 && now.Minute() == 59 && now.Second() >= 59
}
