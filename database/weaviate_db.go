package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "DocumentChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "sourceUrl", DataType: []string{"text"}},
			{Name: "documentType", DataType: []string{"text"}},
			{Name: "filename", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "wordCount", DataType: []string{"int"}},
		},
		// Vectors are supplied by the embedding service, never by a
		// weaviate vectorizer module.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore indexes document chunks in a remote Weaviate instance.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	weaviateCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		weaviateCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
		weaviateCfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     cfg.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(weaviateCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create DocumentChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) AddChunks(ctx context.Context, chunks []types.DocumentChunk) error {
	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":      chunks[j].Content,
				"sourceUrl":    chunks[j].Metadata.SourceURL,
				"documentType": string(chunks[j].Metadata.DocumentType),
				"filename":     chunks[j].Metadata.Filename,
				"chunkIndex":   chunks[j].Metadata.ChunkIndex,
				"wordCount":    chunks[j].Metadata.WordCount,
			}
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				Properties: properties,
				Vector:     chunks[j].Embedding,
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("%w: failed to insert batch %d-%d: %v", types.ErrBackend, i, end, err)
		}

		log.Printf("Indexed batch %d-%d of %d chunks", i, end, total)
	}
	return nil
}

func (s *WeaviateStore) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]types.SearchResult, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceUrl"},
		{Name: "documentType"},
		{Name: "filename"},
		{Name: "chunkIndex"},
		{Name: "wordCount"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector)
	if topK > 0 {
		getBuilder = getBuilder.WithLimit(topK)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBackend, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: search failed: %v", types.ErrBackend, result.Errors[0].Message)
	}

	var results []types.SearchResult
	if get, ok := result.Data["Get"].(map[string]interface{}); ok {
		if data, ok := get[CHUNK_CLASS].([]interface{}); ok {
			for _, item := range data {
				chunk, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				searchResult, ok := searchResultFromObject(chunk)
				if !ok {
					log.Printf("Skipping malformed %s search row", CHUNK_CLASS)
					continue
				}
				results = append(results, searchResult)
			}
		}
	}

	return results, nil
}

// searchResultFromObject maps one GraphQL Get row onto a SearchResult.
// A row without a content property is unusable and reported as such;
// missing metadata properties fall back to zero values.
func searchResultFromObject(chunk map[string]interface{}) (types.SearchResult, bool) {
	content, ok := chunk["content"].(string)
	if !ok {
		return types.SearchResult{}, false
	}
	result := types.SearchResult{Content: content}
	if v, ok := chunk["sourceUrl"].(string); ok {
		result.Metadata.SourceURL = v
	}
	if v, ok := chunk["documentType"].(string); ok {
		result.Metadata.DocumentType = types.DocumentType(v)
	}
	if v, ok := chunk["filename"].(string); ok {
		result.Metadata.Filename = v
	}
	if v, ok := chunk["chunkIndex"].(float64); ok {
		result.Metadata.ChunkIndex = int(v)
	}
	if v, ok := chunk["wordCount"].(float64); ok {
		result.Metadata.WordCount = int(v)
	}
	if additional, ok := chunk["_additional"].(map[string]interface{}); ok {
		// Weaviate reports cosine distance, convert to a descending
		// similarity score.
		if distance, ok := additional["distance"].(float64); ok {
			result.Score = 1 - float32(distance)
		}
	}
	return result, true
}

func (s *WeaviateStore) Reset(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete DocumentChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create DocumentChunk class: %v", err)
	}
	return nil
}
