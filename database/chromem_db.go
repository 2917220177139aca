package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
)

// ChromemStore is an embedded vector store backed by chromem-go. With a
// configured path the collection survives restarts; without one it lives
// in memory like the default store.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

func NewChromemStore(cfg config.ChromemStoreConfig) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if cfg.Path != "" {
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	metadata := map[string]string{
		"hnsw:space": "cosine",
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, metadata, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
		name:       cfg.Collection,
	}, nil
}

func (s *ChromemStore) AddChunks(ctx context.Context, chunks []types.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))
	metadatas := make([]map[string]string, 0, len(chunks))
	contents := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %d has no embedding", types.ErrBackend, i)
		}
		ids = append(ids, uuid.New().String())
		vectors = append(vectors, chunk.Embedding)
		metadatas = append(metadatas, map[string]string{
			"source_url":    chunk.Metadata.SourceURL,
			"document_type": string(chunk.Metadata.DocumentType),
			"filename":      chunk.Metadata.Filename,
			"chunk_index":   strconv.Itoa(chunk.Metadata.ChunkIndex),
			"word_count":    strconv.Itoa(chunk.Metadata.WordCount),
		})
		contents = append(contents, chunk.Content)
	}

	if err := s.collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("%w: %v", types.ErrBackend, err)
	}
	return nil
}

func (s *ChromemStore) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]types.SearchResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK <= 0 || topK > count {
		topK = count
	}

	queryResults, err := s.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBackend, err)
	}

	results := make([]types.SearchResult, 0, len(queryResults))
	for _, r := range queryResults {
		chunkIndex, _ := strconv.Atoi(r.Metadata["chunk_index"])
		wordCount, _ := strconv.Atoi(r.Metadata["word_count"])
		results = append(results, types.SearchResult{
			Content: r.Content,
			Score:   r.Similarity,
			Metadata: types.ChunkMetadata{
				SourceURL:    r.Metadata["source_url"],
				DocumentType: types.DocumentType(r.Metadata["document_type"]),
				Filename:     r.Metadata["filename"],
				ChunkIndex:   chunkIndex,
				WordCount:    wordCount,
			},
		})
	}
	return results, nil
}

func (s *ChromemStore) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	metadata := map[string]string{
		"hnsw:space": "cosine",
	}
	collection, err := s.db.GetOrCreateCollection(s.name, metadata, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	s.collection = collection
	return nil
}
