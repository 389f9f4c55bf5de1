package indexes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awfulsec/textnews/internal/news"
)

func sampleEdition(slot news.TimeSlot) news.Edition {
	return news.Edition{
		LocalDate: "2026-03-14",
		TimeSlot:  slot,
		LocalTime: "09:15:00",
		Articles: []news.Article{
			{
				Title:    "Rates Hold Steady",
				Category: "Business",
				Source:   "https://lite.cnn.com/2026/03/14/economy/rates",
			},
			{
				Title:    "Storm Closes Coastal Highway",
				Category: "Weather",
				Source:   "https://text.npr.org/g-s1-000001",
			},
		},
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "storm-closes-coastal-highway", Slugify("Storm Closes Coastal Highway"))
	assert.Equal(t, "whats-next-for-rates", Slugify("What's Next, for Rates?"))
	assert.Equal(t, "re-entry", Slugify("Re-Entry"))
	assert.Equal(t, "", Slugify(""))
}

func TestMergeDateTOCSeedsNewDocument(t *testing.T) {
	doc := mergeDateTOC("", sampleEdition(news.SlotMorning))

	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "# Editions published on 2026-03-14", lines[0])
	assert.Equal(t, "- [Morning](./2026-03-14_morning.md)", lines[2])
	assert.Equal(t, "\t- [**Business**](2026-03-14_morning.md#business)", lines[3])
	assert.Equal(t, "\t\t- <small>`cnn`</small> - [Rates Hold Steady](2026-03-14_morning.md#rates-hold-steady---cnn)", lines[4])
	assert.Equal(t, "\t- [**Weather**](2026-03-14_morning.md#weather)", lines[5])
	assert.Equal(t, "\t\t- <small>`npr`</small> - [Storm Closes Coastal Highway](2026-03-14_morning.md#storm-closes-coastal-highway---npr)", lines[6])
}

func TestMergeDateTOCIsIdempotent(t *testing.T) {
	edition := sampleEdition(news.SlotMorning)
	once := mergeDateTOC("", edition)
	twice := mergeDateTOC(once, edition)
	assert.Equal(t, once, twice)
}

func TestMergeDateTOCKeepsStaleListingForSameSlot(t *testing.T) {
	first := sampleEdition(news.SlotMorning)
	merged := mergeDateTOC("", first)

	changed := first
	changed.Articles = []news.Article{{Title: "Brand New Story", Category: "Politics"}}
	assert.Equal(t, merged, mergeDateTOC(merged, changed))
}

func TestMergeDateTOCAppendsSecondSlot(t *testing.T) {
	doc := mergeDateTOC("", sampleEdition(news.SlotMorning))
	doc = mergeDateTOC(doc, sampleEdition(news.SlotEvening))

	assert.Equal(t, 1, strings.Count(doc, "# Editions published on 2026-03-14"))
	assert.Contains(t, doc, "- [Morning](./2026-03-14_morning.md)")
	assert.Contains(t, doc, "- [Evening](./2026-03-14_evening.md)")
}

func TestMergeManifestSeedsSkeleton(t *testing.T) {
	doc := mergeManifest("", sampleEdition(news.SlotMorning))

	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "# Summary", lines[0])
	assert.Equal(t, "- [Daily News](./daily_news.md)", lines[5])
	assert.Equal(t, "    - [2026-03-14](./2026-03-14.md)", lines[6])
	assert.Equal(t, "        - [Morning](./2026-03-14_morning.md)", lines[7])
}

func TestMergeManifestGroupsSlotsUnderOneDate(t *testing.T) {
	doc := mergeManifest("", sampleEdition(news.SlotMorning))
	doc = mergeManifest(doc, sampleEdition(news.SlotEvening))

	assert.Equal(t, 1, strings.Count(doc, "    - [2026-03-14](./2026-03-14.md)"))
	morning := strings.Index(doc, "        - [Morning](./2026-03-14_morning.md)")
	evening := strings.Index(doc, "        - [Evening](./2026-03-14_evening.md)")
	require.NotEqual(t, -1, morning)
	require.NotEqual(t, -1, evening)
	assert.Less(t, morning, evening)
}

func TestMergeManifestNewestDateFirst(t *testing.T) {
	older := sampleEdition(news.SlotMorning)
	doc := mergeManifest("", older)

	newer := sampleEdition(news.SlotMorning)
	newer.LocalDate = "2026-03-15"
	doc = mergeManifest(doc, newer)

	assert.Less(t,
		strings.Index(doc, "    - [2026-03-15](./2026-03-15.md)"),
		strings.Index(doc, "    - [2026-03-14](./2026-03-14.md)"),
	)
}

func TestMergeManifestIsIdempotent(t *testing.T) {
	edition := sampleEdition(news.SlotAfternoon)
	once := mergeManifest("", edition)
	twice := mergeManifest(once, edition)
	assert.Equal(t, once, twice)
}

func TestMergeChronicleSeedsAndGroups(t *testing.T) {
	doc := mergeChronicle("", sampleEdition(news.SlotMorning))
	doc = mergeChronicle(doc, sampleEdition(news.SlotEvening))

	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "# Awful News Index", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "- [**2026-03-14**](./2026-03-14.md)", lines[2])
	assert.Equal(t, "    - [Morning](./2026-03-14_morning.md)", lines[3])
	assert.Equal(t, "    - [Evening](./2026-03-14_evening.md)", lines[4])
}

func TestMergeChronicleIsIdempotent(t *testing.T) {
	edition := sampleEdition(news.SlotEvening)
	once := mergeChronicle("", edition)
	twice := mergeChronicle(once, edition)
	assert.Equal(t, once, twice)
}

func TestMergeChronicleNewestDateFirst(t *testing.T) {
	doc := mergeChronicle("", sampleEdition(news.SlotMorning))

	newer := sampleEdition(news.SlotAfternoon)
	newer.LocalDate = "2026-03-20"
	doc = mergeChronicle(doc, newer)

	assert.Less(t,
		strings.Index(doc, "- [**2026-03-20**]"),
		strings.Index(doc, "- [**2026-03-14**]"),
	)
}
