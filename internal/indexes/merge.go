// Package indexes maintains the markdown navigation documents that link
// editions together: a per-date table of contents, the mdBook SUMMARY.md
// manifest, and the chronological daily_news.md index.
//
// Every merge is a pure transform over the document's lines. Files are
// loaded whole, edited by index, and re-serialized by joining with
// newlines, so the insertion logic is testable without touching disk.
package indexes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awfulsec/textnews/internal/news"
)

const (
	summarySeed = "# Summary\n\n[Home](./home.md)\n- [PGP](./pgp.md)\n- [Contact](./contact.md)\n- [Daily News](./daily_news.md)"

	chronicleTitle  = "# Awful News Index"
	dailyNewsAnchor = "- [Daily News]"

	manifestDateIndent    = "    "
	manifestEditionIndent = "        "
	chronicleEntryIndent  = "    "
)

// Slugify lowercases a title and reduces it to the hyphenated anchor
// form used in edition documents: non-alphanumeric runes other than
// spaces and hyphens are stripped, then spaces become hyphens.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// anchorFor builds the in-document anchor for an article: the slugified
// title, disambiguated with the source tag when one is available.
func anchorFor(a news.Article) string {
	slug := Slugify(a.Title)
	if tag := a.SourceTag(); tag != "" {
		slug += "---" + tag
	}
	return slug
}

func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

func insertAt(lines []string, i int, entries ...string) []string {
	out := make([]string, 0, len(lines)+len(entries))
	out = append(out, lines[:i]...)
	out = append(out, entries...)
	out = append(out, lines[i:]...)
	return out
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == strings.TrimSpace(want) {
			return true
		}
	}
	return false
}

// mergeDateTOC merges one edition into its per-date table of contents.
// The edition link gates the whole merge: when it is already present the
// document comes back unchanged, stale article listing and all.
// Otherwise the link is appended followed by the full per-category
// article listing.
func mergeDateTOC(doc string, edition news.Edition) string {
	lines := splitLines(doc)
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("# Editions published on %s", edition.LocalDate), ""}
	}

	filename := edition.Filename()
	editionLink := fmt.Sprintf("- [%s](./%s)", edition.TimeSlot.Title(), filename)
	if containsLine(lines, editionLink) {
		return doc
	}

	lines = append(lines, editionLink)
	lines = append(lines, renderCategoryListing(edition.Articles, filename)...)
	return joinLines(lines)
}

// renderCategoryListing renders the nested article listing for a date
// TOC: one line per category in alphabetical order, then one line per
// article under its category, linking to the article's anchor in the
// edition document.
func renderCategoryListing(articles []news.Article, filename string) []string {
	byCategory := make(map[string][]news.Article)
	for _, a := range articles {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var lines []string
	for _, category := range categories {
		lines = append(lines, fmt.Sprintf("\t- [**%s**](%s#%s)", category, filename, Slugify(category)))
		for _, a := range byCategory[category] {
			if tag := a.SourceTag(); tag != "" {
				lines = append(lines, fmt.Sprintf("\t\t- <small>`%s`</small> - [%s](%s#%s)", tag, a.Title, filename, anchorFor(a)))
			} else {
				lines = append(lines, fmt.Sprintf("\t\t- [%s](%s#%s)", a.Title, filename, anchorFor(a)))
			}
		}
	}
	return lines
}

// mergeManifest merges one edition into the mdBook SUMMARY.md manifest.
// A missing document is seeded with the fixed site skeleton. The date
// heading goes directly under the Daily News anchor, newest date first,
// and the edition entry goes at the end of the contiguous edition block
// under its date. Both insertions are idempotent.
func mergeManifest(doc string, edition news.Edition) string {
	if doc == "" {
		doc = summarySeed
	}
	lines := splitLines(doc)

	dateHeading := fmt.Sprintf("%s- [%s](./%s.md)", manifestDateIndent, edition.LocalDate, edition.LocalDate)
	editionEntry := fmt.Sprintf("%s- [%s](./%s)", manifestEditionIndent, edition.TimeSlot.Title(), edition.Filename())

	lines = mergeUnderDateHeading(lines, dateHeading, editionEntry, manifestEditionIndent+"- ", func(ls []string) []string {
		for i, l := range ls {
			if strings.Contains(l, dailyNewsAnchor) {
				return insertAt(ls, i+1, dateHeading, editionEntry)
			}
		}
		return append(ls, dateHeading, editionEntry)
	})
	return joinLines(lines)
}

// mergeChronicle merges one edition into the chronological daily_news.md
// index. New dates land right under the title line, newest first.
func mergeChronicle(doc string, edition news.Edition) string {
	if doc == "" {
		doc = chronicleTitle + "\n"
	}
	lines := splitLines(doc)

	dateHeading := fmt.Sprintf("- [**%s**](./%s.md)", edition.LocalDate, edition.LocalDate)
	editionEntry := fmt.Sprintf("%s- [%s](./%s)", chronicleEntryIndent, edition.TimeSlot.Title(), edition.Filename())

	lines = mergeUnderDateHeading(lines, dateHeading, editionEntry, chronicleEntryIndent+"- ", func(ls []string) []string {
		for i, l := range ls {
			if strings.HasPrefix(l, chronicleTitle) {
				return insertAt(ls, i+1, "", dateHeading, editionEntry)
			}
		}
		return append(ls, dateHeading, editionEntry)
	})
	return joinLines(lines)
}

// mergeUnderDateHeading implements the shared merge shape: find the date
// heading, scan the contiguous block of entry lines beneath it, and add
// the edition entry at the end of that block unless it is already there.
// When the heading is missing, seedDate decides where heading and entry
// land.
func mergeUnderDateHeading(lines []string, dateHeading, editionEntry, entryPrefix string, seedDate func([]string) []string) []string {
	for i, l := range lines {
		if strings.TrimSpace(l) != strings.TrimSpace(dateHeading) {
			continue
		}
		j := i + 1
		for j < len(lines) && strings.HasPrefix(lines[j], entryPrefix) {
			if strings.TrimSpace(lines[j]) == strings.TrimSpace(editionEntry) {
				return lines
			}
			j++
		}
		return insertAt(lines, j, editionEntry)
	}
	return seedDate(lines)
}
