package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
)

func newTestChromemStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(config.ChromemStoreConfig{Collection: "test_chunks"})
	require.NoError(t, err)
	return store
}

func TestChromemStoreRoundTrip(t *testing.T) {
	store := newTestChromemStore(t)

	err := store.AddChunks(context.Background(), []types.DocumentChunk{
		{
			Content:   "the grace period is thirty days",
			Embedding: []float32{1, 0, 0},
			Metadata: types.ChunkMetadata{
				SourceURL:    "https://example.com/policy.pdf",
				DocumentType: types.DocumentTypePDF,
				Filename:     "policy.pdf",
				ChunkIndex:   0,
				WordCount:    6,
			},
		},
		{
			Content:   "unrelated content",
			Embedding: []float32{0, 1, 0},
			Metadata: types.ChunkMetadata{
				SourceURL:  "https://example.com/policy.pdf",
				ChunkIndex: 1,
			},
		},
	})
	require.NoError(t, err)

	results, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "the grace period is thirty days", results[0].Content)
	assert.Equal(t, "https://example.com/policy.pdf", results[0].Metadata.SourceURL)
	assert.Equal(t, types.DocumentTypePDF, results[0].Metadata.DocumentType)
	assert.Equal(t, 0, results[0].Metadata.ChunkIndex)
	assert.Equal(t, 6, results[0].Metadata.WordCount)
}

func TestChromemStoreSearchEmptyCollection(t *testing.T) {
	store := newTestChromemStore(t)

	results, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChromemStoreClampsTopKToCount(t *testing.T) {
	store := newTestChromemStore(t)

	err := store.AddChunks(context.Background(), []types.DocumentChunk{
		{Content: "only chunk", Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)

	results, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestChromemStoreReset(t *testing.T) {
	store := newTestChromemStore(t)

	err := store.AddChunks(context.Background(), []types.DocumentChunk{
		{Content: "chunk", Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)

	require.NoError(t, store.Reset(context.Background()))

	results, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}
