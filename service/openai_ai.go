package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docqa-be/types"
)

// OpenAIService answers questions with an OpenAI-compatible chat
// completion endpoint.
type OpenAIService struct {
	client          *openai.Client
	model           string
	maxRetries      int
	maxContextWords int
	maxAnswerTokens int
}

func NewOpenAIService(baseURL, apiKey, model string, queryCfg QueryOptions) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client:          client,
		model:           model,
		maxRetries:      queryCfg.GenerateRetries,
		maxContextWords: queryCfg.MaxContextWords,
		maxAnswerTokens: queryCfg.MaxAnswerTokens,
	}
}

// QueryOptions bounds the generation call.
type QueryOptions struct {
	GenerateRetries int
	MaxContextWords int
	MaxAnswerTokens int
}

func (s *OpenAIService) GenerateAnswer(ctx context.Context, question string, results []types.SearchResult) (*types.GeneratedAnswer, error) {
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

		resp, err := s.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model: s.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
				Temperature: 0,
				MaxTokens:   s.maxAnswerTokens,
			},
		)
		if err != nil {
			lastErr = err
			log.Printf("Chat completion attempt %d failed: %v", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("no response generated")
			continue
		}

		return &types.GeneratedAnswer{
			Answer:     resp.Choices[0].Message.Content,
			Confidence: 0.9,
			TokenUsage: map[string]int{
				"prompt_tokens":     resp.Usage.PromptTokens,
				"completion_tokens": resp.Usage.CompletionTokens,
				"total_tokens":      resp.Usage.TotalTokens,
			},
		}, nil
	}

	return nil, fmt.Errorf("%w: generation failed after %d attempts: %v", types.ErrBackend, retries, lastErr)
}
