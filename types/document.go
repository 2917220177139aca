package types

import "time"

// DocumentType identifies the format a remote document is parsed as.
type DocumentType string

const (
	DocumentTypePDF   DocumentType = "pdf"
	DocumentTypeDocx  DocumentType = "docx"
	DocumentTypeEmail DocumentType = "email"
	DocumentTypeText  DocumentType = "text"
)

// DocumentChunk is the unit of retrievable text produced by chunking.
// The embedding is attached after the batched embedding call and is not
// touched again once the chunk has been added to the vector store.
type DocumentChunk struct {
	Content   string        // The actual text content
	Metadata  ChunkMetadata // Associated metadata for the chunk
	Embedding []float32     // Embedding vector, nil until assigned
}

// ChunkMetadata describes where a chunk came from.
type ChunkMetadata struct {
	SourceURL    string       // URL the document was downloaded from
	DocumentType DocumentType // Format the document was parsed as
	Filename     string       // Filename part of the URL
	ChunkIndex   int          // 0-based insertion order within the document
	WordCount    int          // Number of words in this chunk
}

// DocumentServiceConfig contains configuration options for document processing
type DocumentServiceConfig struct {
	ChunkSize     int // Words per chunk
	MaxChunks     int // Hard cap on chunks per document
	MaxWords      int // Document word cap applied before chunking
	MinTextLength int // Minimum extracted text length in characters
}

// SearchResult is one scored chunk returned by a vector store,
// ordered by descending score.
type SearchResult struct {
	Content  string        `json:"content"`
	Score    float32       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// GeneratedAnswer is the LLM backend response for one question.
type GeneratedAnswer struct {
	Answer     string         `json:"answer"`
	Confidence float64        `json:"confidence"`
	TokenUsage map[string]int `json:"token_usage"`
}

// DocumentCacheEntry records that a URL's chunks are embedded and indexed.
type DocumentCacheEntry struct {
	ChunkCount  int
	ProcessedAt time.Time
}
