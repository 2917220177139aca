package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docqa-be/types"
)

// OpenAIEmbeddingService produces embeddings through an OpenAI-compatible
// embeddings endpoint in one batched call.
type OpenAIEmbeddingService struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbeddingService(baseURL, apiKey, model string) *OpenAIEmbeddingService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIEmbeddingService{
		client: client,
		model:  model,
	}
}

func (s *OpenAIEmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings request: %v", types.ErrBackend, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", types.ErrBackend, len(resp.Data), len(texts))
	}

	// Place vectors by the reported index so output order always matches
	// input order.
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", types.ErrBackend, item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}
	return embeddings, nil
}
