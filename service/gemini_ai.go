package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/docqa-be/types"
	"google.golang.org/api/option"
)

// GeminiService answers questions and produces embeddings through the
// Gemini API. It implements both AIService and EmbeddingService.
type GeminiService struct {
	client          *genai.Client
	model           *genai.GenerativeModel
	embedModel      string
	maxRetries      int
	maxContextWords int
	maxAnswerTokens int
}

func NewGeminiService(ctx context.Context, apiKey, modelName, embedModel string, queryCfg QueryOptions) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("no Gemini API key provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	temperature := float32(0)
	model.Temperature = &temperature
	if queryCfg.MaxAnswerTokens > 0 {
		maxTokens := int32(queryCfg.MaxAnswerTokens)
		model.MaxOutputTokens = &maxTokens
	}

	return &GeminiService{
		client:          client,
		model:           model,
		embedModel:      embedModel,
		maxRetries:      queryCfg.GenerateRetries,
		maxContextWords: queryCfg.MaxContextWords,
		maxAnswerTokens: queryCfg.MaxAnswerTokens,
	}, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func (s *GeminiService) GenerateAnswer(ctx context.Context, question string, results []types.SearchResult) (*types.GeneratedAnswer, error) {
	prompt := fmt.Sprintf(answerPromptFormat, buildContext(results, s.maxContextWords), question)

	retries := s.maxRetries
	if retries <= 0 {
		retries = 2
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			if err := sleepOrDone(ctx, retryDelay(attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", types.ErrBackend, err)
			}
		}

		resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			log.Printf("Gemini generation attempt %d failed: %v", attempt+1, err)
			continue
		}
		if len(resp.Candidates) == 0 {
			lastErr = errors.New("no response generated")
			continue
		}

		content := ""
		for _, cand := range resp.Candidates {
			if cand.Content != nil {
				for _, part := range cand.Content.Parts {
					if text, ok := part.(genai.Text); ok {
						content += string(text)
					}
				}
			}
		}

		answer := &types.GeneratedAnswer{
			Answer:     content,
			Confidence: 0.9,
			TokenUsage: map[string]int{},
		}
		if resp.UsageMetadata != nil {
			answer.TokenUsage["prompt_tokens"] = int(resp.UsageMetadata.PromptTokenCount)
			answer.TokenUsage["completion_tokens"] = int(resp.UsageMetadata.CandidatesTokenCount)
			answer.TokenUsage["total_tokens"] = int(resp.UsageMetadata.TotalTokenCount)
		}
		return answer, nil
	}

	return nil, fmt.Errorf("%w: generation failed after %d attempts: %v", types.ErrBackend, retries, lastErr)
}

// EmbedTexts produces one embedding per text in a single batched call.
func (s *GeminiService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := s.client.EmbeddingModel(s.embedModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: batch embed: %v", types.ErrBackend, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", types.ErrBackend, len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		embeddings[i] = e.Values
	}
	return embeddings, nil
}
