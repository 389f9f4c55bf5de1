// Package edition groups enriched articles into dated, time-slotted
// editions.
package edition

import (
	"time"

	"github.com/awfulsec/textnews/internal/news"
)

// SlotAt maps a local wall-clock time to its edition slot. The day is
// split into three fixed windows: [00:00, 08:00) is morning,
// [08:00, 16:00) is afternoon, and the rest is evening.
func SlotAt(t time.Time) news.TimeSlot {
	switch h := t.Hour(); {
	case h < 8:
		return news.SlotMorning
	case h < 16:
		return news.SlotAfternoon
	default:
		return news.SlotEvening
	}
}
