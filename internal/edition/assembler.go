package edition

import (
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// Assembler stamps a batch of enrichment results with the run's local
// date and time slot.
type Assembler struct {
	clock  news.Clock
	logger *zap.Logger
}

// NewAssembler creates an Assembler that reads the wall clock from clock.
func NewAssembler(clock news.Clock, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{clock: clock, logger: logger}
}

// Assemble builds the edition for the current local time from a batch of
// enrichment results. Nil slots, left behind by failed articles, are
// skipped while the survivors keep their relative order.
func (a *Assembler) Assemble(results []*news.Article) news.Edition {
	now := a.clock.Now()
	edition := news.Edition{
		LocalDate: now.Format("2006-01-02"),
		TimeSlot:  SlotAt(now),
		LocalTime: now.Format("15:04:05"),
		Articles:  make([]news.Article, 0, len(results)),
	}
	for _, article := range results {
		if article == nil {
			continue
		}
		edition.Articles = append(edition.Articles, *article)
	}

	metrics.ObserveEdition(string(edition.TimeSlot))
	a.logger.Info("edition assembled",
		zap.String("date", edition.LocalDate),
		zap.String("slot", string(edition.TimeSlot)),
		zap.Int("articles", len(edition.Articles)),
		zap.Int("dropped", len(results)-len(edition.Articles)),
	)
	return edition
}
