package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/news"
)

const goodReply = `{
	"dateOfPublication": "2026-03-14",
	"timeOfPublication": "09:30:00",
	"title": "Storm Closes Coastal Highway",
	"category": "Weather",
	"summaryOfNewsArticle": "A storm closed the highway overnight.",
	"keyTakeAways": ["Highway closed", "Highway closed", "Reopening unclear"],
	"namedEntities": [
		{"name": "Coastal Highway", "whatIsThisEntity": "Road", "whyIsThisEntityRelevantToTheArticle": "Closed by the storm"},
		{"name": "Coastal Highway", "whatIsThisEntity": "Road again", "whyIsThisEntityRelevantToTheArticle": "Duplicate"}
	],
	"importantDates": [],
	"importantTimeframes": [],
	"tags": ["storm", "weather"]
}`

// scriptedAsker returns its replies in order and records how many times
// it was asked.
type scriptedAsker struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedAsker) Ask(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

func (s *scriptedAsker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestEnrichParsesCleanReply(t *testing.T) {
	asker := &scriptedAsker{replies: []string{goodReply}}
	e := New(asker, zap.NewNop())

	raw := news.RawArticle{Source: "https://lite.cnn.com/article", Content: "storm text"}
	article, err := e.Enrich(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 1, asker.callCount())
	assert.Equal(t, "Storm Closes Coastal Highway", article.Title)
	assert.Equal(t, "https://lite.cnn.com/article", article.Source)
	assert.Equal(t, "storm text", article.Content)
}

func TestEnrichDeduplicatesSubCollections(t *testing.T) {
	asker := &scriptedAsker{replies: []string{goodReply}}
	e := New(asker, zap.NewNop())

	article, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.NoError(t, err)

	require.Len(t, article.KeyTakeaways, 2)
	assert.Equal(t, []string{"Highway closed", "Reopening unclear"}, article.KeyTakeaways)
	require.Len(t, article.NamedEntities, 1)
	assert.Equal(t, "Road", article.NamedEntities[0].WhatItIs)
}

func TestEnrichReAsksOnceOnTruncation(t *testing.T) {
	truncated := goodReply[:len(goodReply)/2]
	asker := &scriptedAsker{replies: []string{truncated, goodReply}}
	e := New(asker, zap.NewNop())

	article, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, asker.callCount())
	assert.Equal(t, "Storm Closes Coastal Highway", article.Title)
}

func TestEnrichDropsAfterSecondTruncation(t *testing.T) {
	truncated := goodReply[:len(goodReply)/2]
	asker := &scriptedAsker{replies: []string{truncated, truncated}}
	e := New(asker, zap.NewNop())

	_, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, 2, asker.callCount())
}

func TestEnrichDoesNotReAskOnMalformedReply(t *testing.T) {
	asker := &scriptedAsker{replies: []string{"this is not json at all"}}
	e := New(asker, zap.NewNop())

	_, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, asker.callCount())
}

func TestEnrichStopsWhenAskFails(t *testing.T) {
	asker := &scriptedAsker{errs: []error{errors.New("backend down")}}
	e := New(asker, zap.NewNop())

	_, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, asker.callCount())
}

func TestEnrichAcceptsFencedReply(t *testing.T) {
	asker := &scriptedAsker{replies: []string{"```json\n" + goodReply + "\n```"}}
	e := New(asker, zap.NewNop())

	article, err := e.Enrich(context.Background(), news.RawArticle{Source: "https://npr.org/a", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Weather", article.Category)
}

func TestLooksTruncated(t *testing.T) {
	_, err := parseArticle(`{"title": "cut off`)
	assert.True(t, looksTruncated(err))

	_, err = parseArticle(`{"title": fals}`)
	require.Error(t, err)
	assert.False(t, looksTruncated(err))

	assert.False(t, looksTruncated(errors.New("plain error")))
}
