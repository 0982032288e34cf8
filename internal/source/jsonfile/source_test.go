package jsonfile

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_FiltersByTitleCaseInsensitive(t *testing.T) {
	s := New("", "testdata/provider1.json")

	items, err := s.Fetch(context.Background(), "GO", 1, 10)
	require.NoError(t, err)

	require.Len(t, items, 4)
	first := items[0]
	assert.Equal(t, DefaultName, first.Source)
	assert.Equal(t, "v1", first.ExternalID)
	assert.Equal(t, domain.KindVideo, first.Kind)
	assert.Equal(t, "go, concurrency", first.Description)
	assert.Equal(t, "mock://providerjson/v1", first.URL)
	require.NotNil(t, first.Metrics.Views)
	assert.Equal(t, 15000, *first.Metrics.Views)
	assert.Nil(t, first.Metrics.ReadingTimeMinutes)
	assert.Equal(t, time.Date(2025, 10, 10, 10, 0, 0, 0, time.UTC), first.PublishedAt)

	assert.Equal(t, domain.KindText, items[3].Kind)
}

func TestFetch_Pages(t *testing.T) {
	s := New("p1", "testdata/provider1.json")

	page2, err := s.Fetch(context.Background(), "go", 2, 3)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a1", page2[0].ExternalID)

	empty, err := s.Fetch(context.Background(), "rust", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFetch_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("", "testdata/provider1.json").Fetch(ctx, "go", 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_MissingFile(t *testing.T) {
	_, err := New("", "testdata/nope.json").Fetch(context.Background(), "go", 1, 10)
	assert.Error(t, err)
}
