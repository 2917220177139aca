package database

import (
	"context"

	"github.com/tieubaoca/docqa-be/types"
)

// VectorDatabase defines the similarity index the query engine retrieves
// from. Implementations must be safe for concurrent use: the index is
// shared by every in-flight request within the process.
type VectorDatabase interface {
	// AddChunks indexes embedded chunks. Every chunk must already carry
	// its embedding vector.
	AddChunks(ctx context.Context, chunks []types.DocumentChunk) error

	// SearchSimilar returns up to topK chunks ordered by descending
	// similarity score.
	SearchSimilar(ctx context.Context, vector []float32, topK int) ([]types.SearchResult, error)

	// Reset drops all indexed chunks.
	Reset(ctx context.Context) error
}
