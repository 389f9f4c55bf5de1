// Package news defines core types shared across subsystems.
package news

import (
	"net/url"
	"strings"
)

// TimeSlot identifies which edition of the day an article batch belongs to.
type TimeSlot string

// Edition slots. Local time [00:00, 08:00) is morning, [08:00, 16:00) is
// afternoon, everything else is evening.
const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Title returns the slot name with the first letter capitalized, as rendered
// in index entries ("Morning", "Afternoon", "Evening").
func (s TimeSlot) Title() string {
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// RawArticle is an article as scraped from a news source, before enrichment.
type RawArticle struct {
	// Source is the URL the article was scraped from.
	Source string
	// Content is the plain text extracted from the article page.
	Content string
}

// Article is a fully enriched news article. The JSON field names match the
// schema the generation backend is instructed to produce, so the parsed
// response and the persisted record share one shape.
type Article struct {
	Source              string               `json:"source,omitempty"`
	PublicationDate     string               `json:"dateOfPublication"`
	PublicationTime     string               `json:"timeOfPublication"`
	Title               string               `json:"title"`
	Category            string               `json:"category"`
	Summary             string               `json:"summaryOfNewsArticle"`
	KeyTakeaways        []string             `json:"keyTakeAways"`
	NamedEntities       []NamedEntity        `json:"namedEntities"`
	ImportantDates      []ImportantDate      `json:"importantDates"`
	ImportantTimeframes []ImportantTimeframe `json:"importantTimeframes"`
	Tags                []string             `json:"tags"`
	Content             string               `json:"content,omitempty"`
}

// NamedEntity is a person, organization, or place extracted from an article.
type NamedEntity struct {
	Name        string `json:"name"`
	WhatItIs    string `json:"whatIsThisEntity"`
	WhyRelevant string `json:"whyIsThisEntityRelevantToTheArticle"`
}

// ImportantDate is a significant date mentioned in an article.
type ImportantDate struct {
	Mentioned   string `json:"dateMentionedInArticle"`
	WhyRelevant string `json:"descriptionOfWhyDateIsRelevant"`
}

// ImportantTimeframe is a significant time period mentioned in an article.
type ImportantTimeframe struct {
	Start       string `json:"approximateTimeFrameStart"`
	End         string `json:"approximateTimeFrameEnd"`
	WhyRelevant string `json:"descriptionOfWhyTimeFrameIsRelevant"`
}

// Edition is one run's worth of enriched articles, keyed by local date and
// time slot. It is assembled once per run and never mutated afterwards.
type Edition struct {
	LocalDate string    `json:"local_date"`
	TimeSlot  TimeSlot  `json:"time_of_day"`
	LocalTime string    `json:"local_time"`
	Articles  []Article `json:"articles"`
}

// Filename returns the edition document filename, e.g. "2025-05-06_morning.md".
func (e Edition) Filename() string {
	return e.LocalDate + "_" + string(e.TimeSlot) + ".md"
}

// SourceTag extracts the short domain tag from the article source URL, e.g.
// "https://lite.cnn.com/2025/..." -> "cnn". Returns "" when the source is
// missing or unparsable.
func (a Article) SourceTag() string {
	if a.Source == "" {
		return ""
	}
	u, err := url.Parse(a.Source)
	if err != nil || u.Host == "" {
		return ""
	}
	parts := strings.Split(u.Hostname(), ".")
	if len(parts) < 2 {
		return ""
	}
	// Second-to-last label: "lite.cnn.com" -> "cnn", "example.com" -> "example".
	return parts[len(parts)-2]
}

// Dedupe removes repeated sub-entries in place. Each collection has its own
// key: entities by name, dates and timeframes by their relevance description,
// takeaways by exact value. The first occurrence wins and surviving entries
// keep their original relative order.
func (a *Article) Dedupe() {
	a.NamedEntities = dedupeBy(a.NamedEntities, func(e NamedEntity) string { return e.Name })
	a.ImportantDates = dedupeBy(a.ImportantDates, func(d ImportantDate) string { return d.WhyRelevant })
	a.ImportantTimeframes = dedupeBy(a.ImportantTimeframes, func(t ImportantTimeframe) string { return t.WhyRelevant })
	a.KeyTakeaways = dedupeBy(a.KeyTakeaways, func(s string) string { return s })
}

func dedupeBy[T any](items []T, key func(T) string) []T {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
