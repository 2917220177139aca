package service

import (
	"context"
	"strings"
	"time"

	"github.com/tieubaoca/docqa-be/types"
)

// EmbeddingService turns texts into embedding vectors, one vector per
// input text, same order.
type EmbeddingService interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIService generates an answer for a question given retrieved context.
// Implementations own a bounded retry budget; once it is exhausted they
// return an error and the caller substitutes a sentinel answer.
type AIService interface {
	GenerateAnswer(ctx context.Context, question string, results []types.SearchResult) (*types.GeneratedAnswer, error)
}

const answerPromptFormat = `Context: %s

Question: %s

Answer in 10-60 words only:`

// buildContext flattens search results into prompt context. Only the
// best-scoring result is used, capped at maxWords words, to keep the
// prompt small.
func buildContext(results []types.SearchResult, maxWords int) string {
	if len(results) == 0 {
		return "No context available"
	}
	words := strings.Fields(results[0].Content)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}

// retryDelay returns the exponential backoff for a retry attempt,
// capped at 5 seconds.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// sleepOrDone waits out the backoff unless the context is cancelled.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
