package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Sentinel answers substituted when retrieval or generation cannot
// produce a real one. They are cached like any other answer.
const (
	AnswerNotAvailable     = "Information not available in the document"
	AnswerGenerationFailed = "Unable to generate answer"
)

// DocumentProcessor is the ingestion half of the pipeline, satisfied by
// DocumentService.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, url string) ([]types.DocumentChunk, error)
}

// QueryEngineConfig bounds retrieval and question concurrency.
type QueryEngineConfig struct {
	TopK                   int
	MaxConcurrentQuestions int
}

// QueryEngine sequences the full pipeline: ensure a document is chunked,
// embedded and indexed exactly once, then answer each question against
// the index. Both caches live for the process lifetime and are shared by
// every concurrent request.
type QueryEngine struct {
	processor DocumentProcessor
	embedder  EmbeddingService
	ai        AIService
	vectorDB  database.VectorDatabase

	topK          int
	maxConcurrent int

	docMu         sync.RWMutex
	documentCache map[string]types.DocumentCacheEntry

	answerMu    sync.RWMutex
	answerCache map[string]string

	// ingestGroup guarantees at most one in-flight ingestion per URL.
	ingestGroup singleflight.Group
}

func NewQueryEngine(
	processor DocumentProcessor,
	embedder EmbeddingService,
	ai AIService,
	vectorDB database.VectorDatabase,
	cfg QueryEngineConfig,
) *QueryEngine {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 2
	}
	maxConcurrent := cfg.MaxConcurrentQuestions
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &QueryEngine{
		processor:     processor,
		embedder:      embedder,
		ai:            ai,
		vectorDB:      vectorDB,
		topK:          topK,
		maxConcurrent: maxConcurrent,
		documentCache: make(map[string]types.DocumentCacheEntry),
		answerCache:   make(map[string]string),
	}
}

// ProcessQuery answers every question against the document at
// documentURL. The returned slice always has one entry per question, in
// input order. Ingestion failure never surfaces as an error: it yields
// one fallback answer per question instead.
func (e *QueryEngine) ProcessQuery(ctx context.Context, documentURL string, questions []string) []string {
	start := time.Now()

	if err := e.ensureDocumentProcessed(ctx, documentURL); err != nil {
		log.Printf("Ingestion failed for %s: %v", documentURL, err)
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = fmt.Sprintf("Error processing question: %v", err)
		}
		return answers
	}

	// Bounded worker pool; answers land at their input index so output
	// order always matches input order.
	answers := make([]string, len(questions))
	g := new(errgroup.Group)
	g.SetLimit(e.maxConcurrent)
	for i, question := range questions {
		i, question := i, question
		g.Go(func() error {
			answers[i] = e.AnswerQuestion(ctx, question)
			return nil
		})
	}
	g.Wait()

	log.Printf("Query for %s completed in %.2fs (%d questions)",
		documentURL, time.Since(start).Seconds(), len(questions))
	return answers
}

// ensureDocumentProcessed runs the ingestion path unless the URL is
// already cached. Concurrent calls for the same new URL collapse into a
// single download/extract/embed/index flight.
func (e *QueryEngine) ensureDocumentProcessed(ctx context.Context, documentURL string) error {
	if e.hasDocument(documentURL) {
		log.Printf("Document in cache, skip processing: %s", documentURL)
		return nil
	}

	_, err, _ := e.ingestGroup.Do(documentURL, func() (interface{}, error) {
		// A second waiter may arrive after the winning flight finished.
		if e.hasDocument(documentURL) {
			return nil, nil
		}

		// The flight serves every waiter for this URL, so it must not
		// inherit the winning caller's cancellation; each stage still
		// bounds itself (HTTP client timeout, provider deadlines).
		ingestCtx := context.WithoutCancel(ctx)

		chunks, err := e.processor.ProcessDocument(ingestCtx, documentURL)
		if err != nil {
			return nil, err
		}

		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}
		embeddings, err := e.embedder.EmbedTexts(ingestCtx, texts)
		if err != nil {
			return nil, err
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", types.ErrBackend, len(embeddings), len(chunks))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}

		if err := e.vectorDB.AddChunks(ingestCtx, chunks); err != nil {
			return nil, err
		}

		// The cache entry is committed only after indexing succeeded, so
		// a cached URL always implies searchable chunks.
		e.putDocument(documentURL, len(chunks))
		log.Printf("Processed and indexed %s: %d chunks", documentURL, len(chunks))
		return nil, nil
	})
	return err
}

// AnswerQuestion resolves one question: answer cache, then embed, search
// and generate. Failures never escape; they become sentinel answers.
func (e *QueryEngine) AnswerQuestion(ctx context.Context, question string) string {
	if answer, ok := e.cachedAnswer(question); ok {
		log.Printf("Answer from cache")
		return answer
	}

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil || len(embeddings) == 0 {
		log.Printf("Question embedding failed: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}

	results, err := e.vectorDB.SearchSimilar(ctx, embeddings[0], e.topK)
	if err != nil {
		log.Printf("Similarity search failed for question %q: %v", question, err)
		return fmt.Sprintf("Error: %v", err)
	}

	var answer string
	if len(results) == 0 {
		answer = AnswerNotAvailable
	} else {
		generated, err := e.ai.GenerateAnswer(ctx, question, results)
		if err != nil {
			log.Printf("Answer generation failed for question %q: %v", question, err)
			answer = AnswerGenerationFailed
		} else if generated.Answer == "" {
			answer = AnswerGenerationFailed
		} else {
			answer = generated.Answer
		}
	}

	e.putAnswer(question, answer)
	return answer
}

// IngestDocument runs the ingestion path for a URL without answering
// anything, reporting the resulting cache entry.
func (e *QueryEngine) IngestDocument(ctx context.Context, documentURL string) (types.DocumentCacheEntry, error) {
	if err := e.ensureDocumentProcessed(ctx, documentURL); err != nil {
		return types.DocumentCacheEntry{}, err
	}
	entry, _ := e.DocumentEntry(documentURL)
	return entry, nil
}

// DocumentEntry reports the cache entry for a processed URL.
func (e *QueryEngine) DocumentEntry(documentURL string) (types.DocumentCacheEntry, bool) {
	e.docMu.RLock()
	defer e.docMu.RUnlock()
	entry, ok := e.documentCache[documentURL]
	return entry, ok
}

func (e *QueryEngine) hasDocument(documentURL string) bool {
	e.docMu.RLock()
	defer e.docMu.RUnlock()
	_, ok := e.documentCache[documentURL]
	return ok
}

func (e *QueryEngine) putDocument(documentURL string, chunkCount int) {
	e.docMu.Lock()
	defer e.docMu.Unlock()
	e.documentCache[documentURL] = types.DocumentCacheEntry{
		ChunkCount:  chunkCount,
		ProcessedAt: time.Now(),
	}
}

// cachedAnswer keys on the exact question string. Distinct spellings of
// the same question are distinct keys.
func (e *QueryEngine) cachedAnswer(question string) (string, bool) {
	e.answerMu.RLock()
	defer e.answerMu.RUnlock()
	answer, ok := e.answerCache[question]
	return answer, ok
}

func (e *QueryEngine) putAnswer(question, answer string) {
	e.answerMu.Lock()
	defer e.answerMu.Unlock()
	e.answerCache[question] = answer
}
