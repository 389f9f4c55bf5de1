package indexes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/news"
)

func TestMergerWritesAllThreeDocuments(t *testing.T) {
	dir := t.TempDir()
	m := NewMerger(dir, zap.NewNop())

	require.NoError(t, m.UpdateAll(sampleEdition(news.SlotMorning)))

	for _, name := range []string{"2026-03-14.md", "SUMMARY.md", "daily_news.md"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, raw, name)
	}
}

func TestMergerIsIdempotentAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	m := NewMerger(dir, zap.NewNop())
	edition := sampleEdition(news.SlotAfternoon)

	require.NoError(t, m.UpdateAll(edition))
	first := readAll(t, dir)
	require.NoError(t, m.UpdateAll(edition))
	assert.Equal(t, first, readAll(t, dir))
}

func TestMergerMergesSecondSlotIntoExistingDocs(t *testing.T) {
	dir := t.TempDir()
	m := NewMerger(dir, zap.NewNop())

	require.NoError(t, m.UpdateAll(sampleEdition(news.SlotMorning)))
	require.NoError(t, m.UpdateAll(sampleEdition(news.SlotEvening)))

	docs := readAll(t, dir)
	assert.Contains(t, docs["daily_news.md"], "    - [Morning](./2026-03-14_morning.md)")
	assert.Contains(t, docs["daily_news.md"], "    - [Evening](./2026-03-14_evening.md)")
	assert.Contains(t, docs["SUMMARY.md"], "        - [Evening](./2026-03-14_evening.md)")
}

func readAll(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	docs := make(map[string]string, len(entries))
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		docs[e.Name()] = string(raw)
	}
	return docs
}
