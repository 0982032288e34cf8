package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(source, id string, kind domain.Kind) domain.ContentRecord {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.NewContentRecord(domain.NormalizedItem{
		Source:      source,
		ExternalID:  id,
		Kind:        kind,
		Title:       source + " " + id,
		PublishedAt: now,
	}, now)
}

func TestStore_SaveAndFind(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := record("A", "1", domain.KindVideo)
	b := record("B", "1", domain.KindText)

	saved, err := s.SaveBatch(ctx, []domain.ContentRecord{a, b})
	require.NoError(t, err)
	assert.Equal(t, []domain.ContentRecord{a, b}, saved)

	found, err := s.FindByNaturalKeys(ctx, []domain.NaturalKey{a.Key(), {Source: "C", ExternalID: "9"}})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, a, found[a.Key()])
}

func TestStore_SaveKeepsFirstIdentity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	first := record("A", "1", domain.KindVideo)
	_, err := s.SaveBatch(ctx, []domain.ContentRecord{first})
	require.NoError(t, err)

	racing := record("A", "1", domain.KindVideo)
	racing.Title = "updated"
	saved, err := s.SaveBatch(ctx, []domain.ContentRecord{racing})
	require.NoError(t, err)

	assert.Equal(t, first.ID, saved[0].ID)
	assert.Equal(t, "updated", saved[0].Title)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ScanFiltersByKind(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, err := s.SaveBatch(ctx, []domain.ContentRecord{
		record("A", "1", domain.KindVideo),
		record("A", "2", domain.KindText),
		record("B", "3", domain.KindText),
	})
	require.NoError(t, err)

	all, err := s.Scan(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	texts, err := s.Scan(ctx, domain.KindText)
	require.NoError(t, err)
	assert.Len(t, texts, 2)
	for _, r := range texts {
		assert.Equal(t, domain.KindText, r.Kind)
	}
}

func TestStore_HasNoNativeFullText(t *testing.T) {
	assert.False(t, storage.CapabilitiesOf(NewStore()).FullText)
}

func TestStore_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().SaveBatch(ctx, []domain.ContentRecord{record("A", "1", domain.KindText)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, NewStore().Ping(ctx), context.Canceled)
}
