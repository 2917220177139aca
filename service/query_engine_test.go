package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/types"
)

type fakeProcessor struct {
	calls        atomic.Int32
	wordCount    int
	chunkSize    int
	err          error
	delay        time.Duration
	failOnCancel bool
}

func (p *fakeProcessor) ProcessDocument(ctx context.Context, url string) ([]types.DocumentChunk, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.failOnCancel && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	var chunks []types.DocumentChunk
	for i := 0; i < p.wordCount; i += p.chunkSize {
		end := i + p.chunkSize
		if end > p.wordCount {
			end = p.wordCount
		}
		chunks = append(chunks, types.DocumentChunk{
			Content: fmt.Sprintf("chunk %d of %s", len(chunks), url),
			Metadata: types.ChunkMetadata{
				SourceURL:  url,
				ChunkIndex: len(chunks),
				WordCount:  end - i,
			},
		})
	}
	return chunks, nil
}

type fakeEmbedder struct {
	calls atomic.Int32
	err   error
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		// Deterministic toy embedding derived from the text length.
		vectors[i] = []float32{float32(len(text)), 1, 0.5}
	}
	return vectors, nil
}

type fakeAI struct {
	calls atomic.Int32
	err   error
}

func (a *fakeAI) GenerateAnswer(ctx context.Context, question string, results []types.SearchResult) (*types.GeneratedAnswer, error) {
	a.calls.Add(1)
	if a.err != nil {
		return nil, a.err
	}
	return &types.GeneratedAnswer{
		Answer:     "answer to " + question,
		Confidence: 0.9,
	}, nil
}

func newTestEngine(processor *fakeProcessor, embedder *fakeEmbedder, ai *fakeAI, store database.VectorDatabase) *QueryEngine {
	return NewQueryEngine(processor, embedder, ai, store, QueryEngineConfig{
		TopK:                   2,
		MaxConcurrentQuestions: 2,
	})
}

func TestProcessQueryPreservesOrderAndLength(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	engine := newTestEngine(processor, &fakeEmbedder{}, &fakeAI{}, database.NewMemoryStore())

	questions := []string{"first question?", "second question?", "third question?"}
	answers := engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", questions)

	require.Len(t, answers, len(questions))
	for i, question := range questions {
		assert.Equal(t, "answer to "+question, answers[i])
	}
}

func TestProcessQueryIngestsDocumentOnce(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	store := database.NewMemoryStore()
	engine := newTestEngine(processor, &fakeEmbedder{}, &fakeAI{}, store)

	engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{"q1?"})
	engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{"q2?"})

	assert.Equal(t, int32(1), processor.calls.Load())
	assert.Equal(t, 3, store.Count())

	entry, ok := engine.DocumentEntry("https://example.com/doc.txt")
	require.True(t, ok)
	assert.Equal(t, 3, entry.ChunkCount)
	assert.False(t, entry.ProcessedAt.IsZero())
}

func TestAnswerCacheSkipsGenerator(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	ai := &fakeAI{}
	engine := newTestEngine(processor, &fakeEmbedder{}, ai, database.NewMemoryStore())

	question := "What is the grace period?"
	answers1 := engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{question})
	answers2 := engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{question})

	assert.Equal(t, answers1[0], answers2[0])
	assert.Equal(t, int32(1), ai.calls.Load())
}

func TestAnswerCacheIsExactStringKeyed(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	ai := &fakeAI{}
	engine := newTestEngine(processor, &fakeEmbedder{}, ai, database.NewMemoryStore())

	engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{"What is X?", "what is x?"})

	// Different spellings are different cache keys.
	assert.Equal(t, int32(2), ai.calls.Load())
}

func TestEmptySearchResultsShortCircuitGenerator(t *testing.T) {
	ai := &fakeAI{}
	engine := newTestEngine(&fakeProcessor{}, &fakeEmbedder{}, ai, database.NewMemoryStore())

	// Nothing is indexed, so the search returns no results.
	answer := engine.AnswerQuestion(context.Background(), "anything?")
	assert.Equal(t, AnswerNotAvailable, answer)
	assert.Equal(t, int32(0), ai.calls.Load())

	// The sentinel is cached like a real answer.
	cached, ok := engine.cachedAnswer("anything?")
	require.True(t, ok)
	assert.Equal(t, AnswerNotAvailable, cached)
}

func TestGeneratorFailureYieldsSentinel(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	ai := &fakeAI{err: errors.New("rate limited")}
	engine := newTestEngine(processor, &fakeEmbedder{}, ai, database.NewMemoryStore())

	answers := engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{"q?"})
	require.Len(t, answers, 1)
	assert.Equal(t, AnswerGenerationFailed, answers[0])

	cached, ok := engine.cachedAnswer("q?")
	require.True(t, ok)
	assert.Equal(t, AnswerGenerationFailed, cached)
}

func TestIngestionFailureReturnsFallbackPerQuestion(t *testing.T) {
	processor := &fakeProcessor{err: fmt.Errorf("%w: document too short", types.ErrValidation)}
	store := database.NewMemoryStore()
	engine := newTestEngine(processor, &fakeEmbedder{}, &fakeAI{}, store)

	questions := []string{"q1?", "q2?", "q3?"}
	answers := engine.ProcessQuery(context.Background(), "https://example.com/short.txt", questions)

	require.Len(t, answers, len(questions))
	for _, answer := range answers {
		assert.Contains(t, answer, "Error processing question")
	}

	// Failed ingestion must not be committed.
	_, ok := engine.DocumentEntry("https://example.com/short.txt")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestEmbeddingFailureDoesNotCommitDocumentCache(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400}
	embedder := &fakeEmbedder{err: fmt.Errorf("%w: embeddings down", types.ErrBackend)}
	store := database.NewMemoryStore()
	engine := newTestEngine(processor, embedder, &fakeAI{}, store)

	engine.ProcessQuery(context.Background(), "https://example.com/doc.txt", []string{"q?"})

	_, ok := engine.DocumentEntry("https://example.com/doc.txt")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestIngestionSurvivesWinnerCancellation(t *testing.T) {
	processor := &fakeProcessor{
		wordCount:    850,
		chunkSize:    400,
		delay:        100 * time.Millisecond,
		failOnCancel: true,
	}
	store := database.NewMemoryStore()
	engine := newTestEngine(processor, &fakeEmbedder{}, &fakeAI{}, store)

	winnerCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		engine.ProcessQuery(winnerCtx, "https://example.com/doc.txt", []string{"winner?"})
	}()
	time.Sleep(20 * time.Millisecond)

	// The waiter joins the in-flight ingestion started by the winner.
	var waiterAnswers []string
	go func() {
		defer wg.Done()
		waiterAnswers = engine.ProcessQuery(context.Background(), "https://example.com/doc.txt",
			[]string{"waiter?"})
	}()
	time.Sleep(20 * time.Millisecond)

	// The winner disconnects while ingestion is still running.
	cancel()
	wg.Wait()

	require.Len(t, waiterAnswers, 1)
	assert.Equal(t, "answer to waiter?", waiterAnswers[0])
	assert.Equal(t, int32(1), processor.calls.Load())

	_, ok := engine.DocumentEntry("https://example.com/doc.txt")
	assert.True(t, ok)
	assert.Equal(t, 3, store.Count())
}

func TestConcurrentIngestionIsDeduplicated(t *testing.T) {
	processor := &fakeProcessor{wordCount: 850, chunkSize: 400, delay: 50 * time.Millisecond}
	store := database.NewMemoryStore()
	engine := newTestEngine(processor, &fakeEmbedder{}, &fakeAI{}, store)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine.ProcessQuery(context.Background(), "https://example.com/doc.txt",
				[]string{fmt.Sprintf("question %d?", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), processor.calls.Load())
	assert.Equal(t, 3, store.Count())
}
