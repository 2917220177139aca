package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
)

// ChunkService splits extracted document text into word-window chunks.
// Windows do not overlap: each chunk advances by exactly chunkSize words,
// so concatenating chunks in index order reproduces the retained word
// sequence.
type ChunkService struct {
	chunkSize     int // Words per chunk
	maxChunks     int // Hard cap on chunks per document
	minTextLength int // Minimum input length in characters
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	ChunkSize:     400,
	MaxChunks:     10,
	MaxWords:      2000,
	MinTextLength: 50,
}

func NewChunkService(config types.DocumentServiceConfig) *ChunkService {
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultDocumentServiceConfig.ChunkSize
	}
	maxChunks := config.MaxChunks
	if maxChunks <= 0 {
		maxChunks = DefaultDocumentServiceConfig.MaxChunks
	}
	minTextLength := config.MinTextLength
	if minTextLength <= 0 {
		minTextLength = DefaultDocumentServiceConfig.MinTextLength
	}
	return &ChunkService{
		chunkSize:     chunkSize,
		maxChunks:     maxChunks,
		minTextLength: minTextLength,
	}
}

// Chunk splits text on whitespace and windows the resulting word
// sequence. The caller-supplied metadata is stamped onto every chunk with
// an increasing ChunkIndex starting at 0. Documents longer than
// maxChunks*chunkSize words lose their tail, a deliberate cap on
// downstream embedding cost. Text shorter than the minimum length fails
// with ErrValidation.
func (s *ChunkService) Chunk(text string, metadata types.ChunkMetadata) ([]types.DocumentChunk, error) {
	normalized := strings.TrimSpace(text)
	if len(normalized) < s.minTextLength {
		return nil, fmt.Errorf("%w: document too short (%d chars, need %d)",
			types.ErrValidation, len(normalized), s.minTextLength)
	}

	words := strings.Fields(normalized)

	var chunks []types.DocumentChunk
	for i := 0; i < len(words); i += s.chunkSize {
		end := i + s.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunkWords := words[i:end]
		content := strings.TrimSpace(strings.Join(chunkWords, " "))
		if content == "" {
			continue
		}

		chunkMetadata := metadata
		chunkMetadata.ChunkIndex = len(chunks)
		chunkMetadata.WordCount = len(chunkWords)
		chunks = append(chunks, types.DocumentChunk{
			Content:  content,
			Metadata: chunkMetadata,
		})

		if len(chunks) >= s.maxChunks {
			break
		}
	}

	log.Printf("Chunking created %d chunks for %s", len(chunks), metadata.SourceURL)
	return chunks, nil
}
